package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/ticktree/internal/domain"
)

// mockClock is a test double for domain.Clock.
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

// mockIDSource mints sequential ids.
type mockIDSource struct {
	next int
}

func (m *mockIDSource) NewID() string {
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// mockNotifier records delivered events.
type mockNotifier struct {
	events []domain.Event
	err    error
}

func (m *mockNotifier) Notify(_ context.Context, ev domain.Event) error {
	m.events = append(m.events, ev)
	return m.err
}

// mockTimerRepository is a test double for domain.TimerRepository.
// Fields are ordered to minimize memory padding.
type mockTimerRepository struct {
	timers map[string]domain.Timer
	states map[string]domain.RunState
	roots  []string

	saveTimerErr error
	saveStateErr error
	forestErr    error
}

func newMockTimerRepository() *mockTimerRepository {
	return &mockTimerRepository{
		timers: make(map[string]domain.Timer),
		states: make(map[string]domain.RunState),
	}
}

// addTimer registers a timer, linking it to its parent or the root registry.
func (m *mockTimerRepository) addTimer(t domain.Timer) {
	m.timers[t.ID] = t
	if t.ParentID == "" || t.ParentID == domain.RootParentID {
		m.roots = append(m.roots, t.ID)
		return
	}
	p := m.timers[t.ParentID]
	p.Children = append(p.Children, t.ID)
	m.timers[t.ParentID] = p
}

func (m *mockTimerRepository) Timer(_ context.Context, id string) (domain.Timer, error) {
	t, ok := m.timers[id]
	if !ok {
		return domain.Timer{ID: id, Name: domain.DefaultName, ParentID: domain.RootParentID}, nil
	}
	return t, nil
}

func (m *mockTimerRepository) SaveTimer(_ context.Context, t domain.Timer) error {
	if m.saveTimerErr != nil {
		return m.saveTimerErr
	}
	m.timers[t.ID] = t
	return nil
}

func (m *mockTimerRepository) State(_ context.Context, id string) (domain.RunState, error) {
	return m.states[id], nil
}

func (m *mockTimerRepository) SaveState(_ context.Context, id string, st domain.RunState) error {
	if m.saveStateErr != nil {
		return m.saveStateErr
	}
	m.states[id] = st
	return nil
}

func (m *mockTimerRepository) Roots(_ context.Context) ([]string, error) {
	return append([]string(nil), m.roots...), nil
}

func (m *mockTimerRepository) SaveRoots(_ context.Context, ids []string) error {
	m.roots = append([]string(nil), ids...)
	return nil
}

func (m *mockTimerRepository) SaveChildren(_ context.Context, id string, children []string) error {
	t := m.timers[id]
	t.ID = id
	t.Children = append([]string(nil), children...)
	m.timers[id] = t
	return nil
}

func (m *mockTimerRepository) ChildrenTotal(_ context.Context, ids []string) (time.Duration, error) {
	var sum time.Duration
	for _, id := range ids {
		sum += m.timers[id].Total
	}
	return sum, nil
}

func (m *mockTimerRepository) Purge(_ context.Context, id string) error {
	delete(m.timers, id)
	delete(m.states, id)
	return nil
}

func (m *mockTimerRepository) Forest(_ context.Context) (*domain.Forest, error) {
	if m.forestErr != nil {
		return nil, m.forestErr
	}
	nodes := make(map[string]*domain.Node)
	var load func(id string)
	load = func(id string) {
		if _, ok := nodes[id]; ok {
			return
		}
		t, _ := m.Timer(context.Background(), id)
		nodes[id] = &domain.Node{Timer: t, State: m.states[id]}
		for _, c := range t.Children {
			load(c)
		}
	}
	roots := append([]string(nil), m.roots...)
	for _, r := range roots {
		load(r)
	}
	return domain.NewForest(roots, nodes), nil
}

func TestCreateTimer_Execute_Root(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:  "Work",
		Total: time.Hour,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "id-1", out.TimerID)
	assert.Equal(t, time.Hour, out.Total)
	assert.False(t, out.Capped)

	saved := repo.timers["id-1"]
	assert.Equal(t, "Work", saved.Name)
	assert.Equal(t, domain.RootParentID, saved.ParentID)
	assert.Equal(t, time.Hour, saved.Total)
	assert.Equal(t, []string{"id-1"}, repo.roots)
}

func TestCreateTimer_Execute_WithParent(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	repo.addTimer(domain.Timer{ID: "parent", Name: "Work", Total: time.Hour})
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:   "Email",
		Parent: "parent",
		Total:  20 * time.Minute,
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Capped)
	assert.Equal(t, 20*time.Minute, out.Total)

	saved := repo.timers[out.TimerID]
	assert.Equal(t, "parent", saved.ParentID)
	assert.Equal(t, []string{out.TimerID}, repo.timers["parent"].Children)
	assert.Equal(t, []string{"parent"}, repo.roots)
}

func TestCreateTimer_Execute_CapsToUnallocated(t *testing.T) {
	// Setup: 40 of 60 minutes already allocated
	repo := newMockTimerRepository()
	repo.addTimer(domain.Timer{ID: "parent", Name: "Work", Total: time.Hour})
	repo.addTimer(domain.Timer{ID: "existing", Name: "Email", ParentID: "parent", Total: 40 * time.Minute})
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:   "Review",
		Parent: "parent",
		Total:  30 * time.Minute,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Capped)
	assert.Equal(t, 20*time.Minute, out.Total)
	assert.Equal(t, 20*time.Minute, repo.timers[out.TimerID].Total)
}

func TestCreateTimer_Execute_CapsToZeroWhenNothingLeft(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	repo.addTimer(domain.Timer{ID: "parent", Name: "Work", Total: time.Hour})
	repo.addTimer(domain.Timer{ID: "existing", Name: "Email", ParentID: "parent", Total: time.Hour})
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:   "Review",
		Parent: "parent",
		Total:  time.Minute,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Capped)
	assert.Equal(t, time.Duration(0), out.Total)
}

func TestCreateTimer_Execute_ParentByPrefix(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	repo.addTimer(domain.Timer{ID: "abcd1234-0000", Name: "Work", Total: time.Hour})
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:   "Email",
		Parent: "abcd",
		Total:  time.Minute,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abcd1234-0000", repo.timers[out.TimerID].ParentID)
}

func TestCreateTimer_Execute_EmptyName(t *testing.T) {
	uc := NewCreateTimer(newMockTimerRepository(), &mockIDSource{}, nil)

	_, err := uc.Execute(context.Background(), CreateTimerInput{Total: time.Minute})

	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestCreateTimer_Execute_NegativeBudget(t *testing.T) {
	uc := NewCreateTimer(newMockTimerRepository(), &mockIDSource{}, nil)

	_, err := uc.Execute(context.Background(), CreateTimerInput{Name: "Work", Total: -time.Minute})

	assert.ErrorIs(t, err, domain.ErrNegativeBudget)
}

func TestCreateTimer_Execute_ParentNotFound(t *testing.T) {
	uc := NewCreateTimer(newMockTimerRepository(), &mockIDSource{}, nil)

	_, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:   "Email",
		Parent: "missing",
		Total:  time.Minute,
	})

	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestCreateTimer_Execute_AmbiguousParent(t *testing.T) {
	// Setup: two ids sharing the prefix
	repo := newMockTimerRepository()
	repo.addTimer(domain.Timer{ID: "abc-one", Name: "A", Total: time.Hour})
	repo.addTimer(domain.Timer{ID: "abc-two", Name: "B", Total: time.Hour})
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	_, err := uc.Execute(context.Background(), CreateTimerInput{
		Name:   "Email",
		Parent: "abc",
		Total:  time.Minute,
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrAmbiguousID)
}

func TestCreateTimer_Execute_SaveError(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	repo.saveTimerErr = assert.AnError
	uc := NewCreateTimer(repo, &mockIDSource{}, nil)

	// Execute
	_, err := uc.Execute(context.Background(), CreateTimerInput{Name: "Work", Total: time.Hour})

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "save timer")
}
