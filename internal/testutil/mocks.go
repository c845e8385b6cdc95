// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Ensure MockClock implements domain.Clock interface.
var _ domain.Clock = (*MockClock)(nil)

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// SequenceIDs mints deterministic UUID-shaped ids.
type SequenceIDs struct {
	next int
}

// Ensure SequenceIDs implements domain.IDSource interface.
var _ domain.IDSource = (*SequenceIDs)(nil)

// NewID returns the next id in the sequence.
func (m *SequenceIDs) NewID() string {
	m.next++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", m.next)
}

// RecordNotifier is a test double for domain.Notifier that records every
// delivered event.
type RecordNotifier struct {
	Events []domain.Event
	Err    error
}

// Ensure RecordNotifier implements domain.Notifier interface.
var _ domain.Notifier = (*RecordNotifier)(nil)

// Notify records the event and returns the configured error.
func (m *RecordNotifier) Notify(_ context.Context, ev domain.Event) error {
	m.Events = append(m.Events, ev)
	return m.Err
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config     *domain.Config
	LoadErr    error
	ConfigPath string
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config:     domain.DefaultConfig(),
		ConfigPath: "/test/.config/ticktree/config.toml",
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// Path returns the configured config path.
func (m *MockConfigLoader) Path() string {
	return m.ConfigPath
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr    error
	ConfigInfo domain.ConfigInfo
	InitCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		ConfigInfo: domain.ConfigInfo{
			Path:   "/test/.config/ticktree/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// Info returns the configured config info.
func (m *MockConfigManager) Info() domain.ConfigInfo {
	return m.ConfigInfo
}

// Init records the call and returns the configured error.
func (m *MockConfigManager) Init() error {
	m.InitCalled = true
	return m.InitErr
}

// MockTimerRepository is an in-memory test double for
// domain.TimerRepository. Reads of absent records return typed defaults,
// matching the durable store's behavior.
type MockTimerRepository struct {
	Timers  map[string]domain.Timer
	States  map[string]domain.RunState
	RootIDs []string

	SaveTimerErr error
	SaveStateErr error
	ForestErr    error
}

// NewMockTimerRepository creates an empty MockTimerRepository.
func NewMockTimerRepository() *MockTimerRepository {
	return &MockTimerRepository{
		Timers: make(map[string]domain.Timer),
		States: make(map[string]domain.RunState),
	}
}

// Ensure MockTimerRepository implements domain.TimerRepository interface.
var _ domain.TimerRepository = (*MockTimerRepository)(nil)

// AddTimer registers a timer, linking it to its parent or the root
// registry.
func (m *MockTimerRepository) AddTimer(t domain.Timer) {
	m.Timers[t.ID] = t
	if t.ParentID == "" || t.ParentID == domain.RootParentID {
		m.RootIDs = append(m.RootIDs, t.ID)
		return
	}
	p := m.Timers[t.ParentID]
	p.Children = append(p.Children, t.ID)
	m.Timers[t.ParentID] = p
}

// Timer retrieves a timer's configuration record.
func (m *MockTimerRepository) Timer(_ context.Context, id string) (domain.Timer, error) {
	t, ok := m.Timers[id]
	if !ok {
		return domain.Timer{ID: id, Name: domain.DefaultName, ParentID: domain.RootParentID}, nil
	}
	return t, nil
}

// SaveTimer writes a timer's configuration record.
func (m *MockTimerRepository) SaveTimer(_ context.Context, t domain.Timer) error {
	if m.SaveTimerErr != nil {
		return m.SaveTimerErr
	}
	m.Timers[t.ID] = t
	return nil
}

// State retrieves a timer's runtime record.
func (m *MockTimerRepository) State(_ context.Context, id string) (domain.RunState, error) {
	return m.States[id], nil
}

// SaveState writes a timer's runtime record.
func (m *MockTimerRepository) SaveState(_ context.Context, id string, st domain.RunState) error {
	if m.SaveStateErr != nil {
		return m.SaveStateErr
	}
	m.States[id] = st
	return nil
}

// Roots returns the ordered root registry.
func (m *MockTimerRepository) Roots(_ context.Context) ([]string, error) {
	return append([]string(nil), m.RootIDs...), nil
}

// SaveRoots writes the ordered root registry.
func (m *MockTimerRepository) SaveRoots(_ context.Context, ids []string) error {
	m.RootIDs = append([]string(nil), ids...)
	return nil
}

// SaveChildren writes a timer's ordered children list.
func (m *MockTimerRepository) SaveChildren(_ context.Context, id string, children []string) error {
	t := m.Timers[id]
	t.ID = id
	t.Children = append([]string(nil), children...)
	m.Timers[id] = t
	return nil
}

// ChildrenTotal sums the budgets of the given ids without recursing.
func (m *MockTimerRepository) ChildrenTotal(_ context.Context, ids []string) (time.Duration, error) {
	var sum time.Duration
	for _, id := range ids {
		sum += m.Timers[id].Total
	}
	return sum, nil
}

// Purge deletes every record belonging to id.
func (m *MockTimerRepository) Purge(_ context.Context, id string) error {
	delete(m.Timers, id)
	delete(m.States, id)
	return nil
}

// Forest loads the arena reachable from the root registry.
func (m *MockTimerRepository) Forest(_ context.Context) (*domain.Forest, error) {
	if m.ForestErr != nil {
		return nil, m.ForestErr
	}
	nodes := make(map[string]*domain.Node)
	var load func(id string)
	load = func(id string) {
		if _, ok := nodes[id]; ok {
			return
		}
		t, _ := m.Timer(context.Background(), id)
		nodes[id] = &domain.Node{Timer: t, State: m.States[id]}
		for _, c := range t.Children {
			load(c)
		}
	}
	roots := append([]string(nil), m.RootIDs...)
	for _, r := range roots {
		load(r)
	}
	return domain.NewForest(roots, nodes), nil
}
