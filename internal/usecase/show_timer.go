package usecase

import (
	"context"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// ShowTimerInput contains the parameters for showing a timer.
type ShowTimerInput struct {
	Ref string // Timer id or unique id prefix
}

// ShowTimerOutput contains the evaluated subtree of one timer.
type ShowTimerOutput struct {
	Rows   []TimerRow // Target first, then its subtree depth-first
	Events []domain.Event
	Now    time.Time
}

// ShowTimer is the use case for inspecting one timer and its subtree.
type ShowTimer struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewShowTimer creates a new ShowTimer use case.
func NewShowTimer(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *ShowTimer {
	return &ShowTimer{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute evaluates the forest and returns the referenced timer's subtree,
// the target itself at depth zero.
func (uc *ShowTimer) Execute(ctx context.Context, in ShowTimerInput) (*ShowTimerOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(f, in.Ref)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	events := f.Pass(now)
	if _, err := persistDirty(ctx, uc.timers, f); err != nil {
		return nil, err
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	var rows []TimerRow
	f.WalkFrom(id, func(id string, depth int) {
		rows = append(rows, rowFor(f, id, depth, now))
	})

	return &ShowTimerOutput{Rows: rows, Events: events, Now: now}, nil
}
