package usecase

import (
	"context"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// TimerRow describes one timer in a listing, with quantities derived at the
// evaluation instant.
type TimerRow struct {
	Timer   domain.Timer
	State   domain.RunState
	Derived domain.Derived
	Depth   int
}

// ListForestInput contains the parameters for listing the forest.
type ListForestInput struct{}

// ListForestOutput contains the evaluated forest in display order.
type ListForestOutput struct {
	Rows   []TimerRow
	Events []domain.Event
	Now    time.Time
}

// ListForest is the use case for listing every timer.
type ListForest struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewListForest creates a new ListForest use case.
func NewListForest(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *ListForest {
	return &ListForest{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute evaluates the forest at the current instant and returns every
// timer depth-first in registry order. Reads evaluate too, so corrections
// that accumulated while no process was watching are applied and persisted
// here.
func (uc *ListForest) Execute(ctx context.Context, _ ListForestInput) (*ListForestOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	events := f.Pass(now)
	if _, err := persistDirty(ctx, uc.timers, f); err != nil {
		return nil, err
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	rows := collectRows(f, now)
	return &ListForestOutput{Rows: rows, Events: events, Now: now}, nil
}

// collectRows walks the whole forest into display rows.
func collectRows(f *domain.Forest, now time.Time) []TimerRow {
	var rows []TimerRow
	f.Walk(func(id string, depth int) {
		rows = append(rows, rowFor(f, id, depth, now))
	})
	return rows
}

func rowFor(f *domain.Forest, id string, depth int, now time.Time) TimerRow {
	n := f.Node(id)
	d, _ := f.Derive(id, now)
	return TimerRow{
		Timer:   n.Timer,
		State:   n.State,
		Derived: d,
		Depth:   depth,
	}
}
