// Package timerstore implements the timer repository over the key-value
// store, one record per field.
package timerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
	"github.com/runoshun/ticktree/internal/infra/codec"
	"github.com/runoshun/ticktree/internal/infra/kv"
)

// Ensure Store implements domain.TimerRepository.
var _ domain.TimerRepository = (*Store)(nil)

// RootsKey holds the ordered root registry.
const RootsKey = "root-timers"

// Field key builders.
func nameKey(id string) string     { return id + "-name" }
func totalKey(id string) string    { return id + "-totalTime" }
func parentKey(id string) string   { return id + "-parentID" }
func childrenKey(id string) string { return id + "-childrenIDs" }
func startedKey(id string) string  { return id + "-started" }
func elapsedKey(id string) string  { return id + "-elapsed" }
func finishedKey(id string) string { return id + "-finished" }
func childRunKey(id string) string { return id + "-childRunning" }

// Store reads and writes timer records. There are no transactions across
// keys; each field is durable on its own and readers tolerate partial
// writes through the codec defaults.
type Store struct {
	kv kv.Store
}

// New creates a Store over the given key-value store.
func New(s kv.Store) *Store {
	return &Store{kv: s}
}

// get returns the stored value, or "" when the key is absent.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// Timer retrieves a timer's configuration record. Absent fields decode to
// typed defaults, so an id that was never written comes back as an unnamed
// zero-budget root.
func (s *Store) Timer(ctx context.Context, id string) (domain.Timer, error) {
	t := domain.Timer{ID: id}

	raw, err := s.get(ctx, nameKey(id))
	if err != nil {
		return t, err
	}
	t.Name = codec.DecodeName(raw)

	if raw, err = s.get(ctx, totalKey(id)); err != nil {
		return t, err
	}
	t.Total = codec.DecodeDuration(raw)

	if raw, err = s.get(ctx, parentKey(id)); err != nil {
		return t, err
	}
	t.ParentID = codec.DecodeParentID(raw)

	if raw, err = s.get(ctx, childrenKey(id)); err != nil {
		return t, err
	}
	t.Children = codec.DecodeIDList(raw)

	return t, nil
}

// SaveTimer writes a timer's configuration record.
func (s *Store) SaveTimer(ctx context.Context, t domain.Timer) error {
	fields := map[string]string{
		nameKey(t.ID):     codec.EncodeName(t.Name),
		totalKey(t.ID):    codec.EncodeDuration(t.Total),
		parentKey(t.ID):   codec.EncodeParentID(t.ParentID),
		childrenKey(t.ID): codec.EncodeIDList(t.Children),
	}
	return s.setAll(ctx, fields)
}

// State retrieves a timer's runtime record. A timer that never ran has no
// runtime keys and decodes to the idle defaults.
func (s *Store) State(ctx context.Context, id string) (domain.RunState, error) {
	var st domain.RunState

	raw, err := s.get(ctx, startedKey(id))
	if err != nil {
		return st, err
	}
	st.Started = codec.DecodeTime(raw)

	if raw, err = s.get(ctx, elapsedKey(id)); err != nil {
		return st, err
	}
	st.Elapsed = codec.DecodeDuration(raw)

	if raw, err = s.get(ctx, finishedKey(id)); err != nil {
		return st, err
	}
	st.Finished = codec.DecodeBool(raw)

	if raw, err = s.get(ctx, childRunKey(id)); err != nil {
		return st, err
	}
	st.ChildRunning = codec.DecodeChildRef(raw)

	return st, nil
}

// SaveState writes a timer's runtime record.
func (s *Store) SaveState(ctx context.Context, id string, st domain.RunState) error {
	fields := map[string]string{
		startedKey(id):  codec.EncodeTime(st.Started),
		elapsedKey(id):  codec.EncodeDuration(st.Elapsed),
		finishedKey(id): codec.EncodeBool(st.Finished),
		childRunKey(id): codec.EncodeChildRef(st.ChildRunning),
	}
	return s.setAll(ctx, fields)
}

// Roots returns the ordered root registry.
func (s *Store) Roots(ctx context.Context) ([]string, error) {
	raw, err := s.get(ctx, RootsKey)
	if err != nil {
		return nil, err
	}
	return codec.DecodeIDList(raw), nil
}

// SaveRoots writes the ordered root registry.
func (s *Store) SaveRoots(ctx context.Context, ids []string) error {
	if err := s.kv.Set(ctx, RootsKey, codec.EncodeIDList(ids)); err != nil {
		return fmt.Errorf("write %s: %w", RootsKey, err)
	}
	return nil
}

// SaveChildren writes a timer's ordered children list.
func (s *Store) SaveChildren(ctx context.Context, id string, children []string) error {
	key := childrenKey(id)
	if err := s.kv.Set(ctx, key, codec.EncodeIDList(children)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// ChildrenTotal sums the budgets of the given ids without recursing.
func (s *Store) ChildrenTotal(ctx context.Context, ids []string) (time.Duration, error) {
	var sum time.Duration
	for _, id := range ids {
		raw, err := s.get(ctx, totalKey(id))
		if err != nil {
			return 0, err
		}
		sum += codec.DecodeDuration(raw)
	}
	return sum, nil
}

// Purge deletes every record belonging to id.
func (s *Store) Purge(ctx context.Context, id string) error {
	keys := []string{
		nameKey(id), totalKey(id), parentKey(id), childrenKey(id),
		startedKey(id), elapsedKey(id), finishedKey(id), childRunKey(id),
	}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// Forest loads the arena reachable from the root registry. Each id is
// loaded once even if children lists repeat or cycle.
func (s *Store) Forest(ctx context.Context) (*domain.Forest, error) {
	roots, err := s.Roots(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*domain.Node)
	var load func(id string) error
	load = func(id string) error {
		if _, ok := nodes[id]; ok {
			return nil
		}
		t, err := s.Timer(ctx, id)
		if err != nil {
			return err
		}
		st, err := s.State(ctx, id)
		if err != nil {
			return err
		}
		nodes[id] = &domain.Node{Timer: t, State: st}
		for _, c := range t.Children {
			if err := load(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := load(r); err != nil {
			return nil, err
		}
	}

	return domain.NewForest(roots, nodes), nil
}

func (s *Store) setAll(ctx context.Context, fields map[string]string) error {
	for key, value := range fields {
		if err := s.kv.Set(ctx, key, value); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}
