package usecase

import (
	"context"

	"github.com/runoshun/ticktree/internal/domain"
)

// ResetTimerInput contains the parameters for resetting a timer.
type ResetTimerInput struct {
	Ref string // Timer id or unique id prefix
}

// ResetTimerOutput contains the result of resetting a timer.
// Fields are ordered to minimize memory padding.
type ResetTimerOutput struct {
	TimerID   string
	Name      string
	Events    []domain.Event // Corrections observed by the follow-up evaluation
	Restarted bool           // The timer was running and its segment restarted
}

// ResetTimer is the use case for zeroing a timer's accounting window.
type ResetTimer struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewResetTimer creates a new ResetTimer use case.
func NewResetTimer(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *ResetTimer {
	return &ResetTimer{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute clears the referenced timer's elapsed time and completion latch.
// A running timer keeps running with a fresh segment; no cascade fires.
func (uc *ResetTimer) Execute(ctx context.Context, in ResetTimerInput) (*ResetTimerOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(f, in.Ref)
	if err != nil {
		return nil, err
	}
	n := f.Node(id)
	restarted := n.State.Running()

	// Reset and settle
	now := uc.clock.Now()
	if err := f.Reset(id, now); err != nil {
		return nil, err
	}
	events := f.Pass(now)

	if _, err := persistDirty(ctx, uc.timers, f); err != nil {
		return nil, err
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	if uc.logger != nil {
		uc.logger.Info(component(id), "timer", "reset")
	}

	return &ResetTimerOutput{
		TimerID:   id,
		Name:      n.Timer.Name,
		Events:    events,
		Restarted: restarted,
	}, nil
}
