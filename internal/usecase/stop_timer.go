package usecase

import (
	"context"

	"github.com/runoshun/ticktree/internal/domain"
)

// StopTimerInput contains the parameters for stopping a timer.
type StopTimerInput struct {
	Ref string // Timer id or unique id prefix
}

// StopTimerOutput contains the result of stopping a timer.
// Fields are ordered to minimize memory padding.
type StopTimerOutput struct {
	TimerID    string
	Name       string
	Events     []domain.Event // Corrections observed by the follow-up evaluation
	WasRunning bool           // False when the stop was a no-op
}

// StopTimer is the use case for closing a timer's run-segment.
type StopTimer struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewStopTimer creates a new StopTimer use case.
func NewStopTimer(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *StopTimer {
	return &StopTimer{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute stops the referenced timer and unwinds the stop cascade through
// ancestors still tracking it. Stopping a timer that is not running is a
// no-op.
func (uc *StopTimer) Execute(ctx context.Context, in StopTimerInput) (*StopTimerOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(f, in.Ref)
	if err != nil {
		return nil, err
	}
	n := f.Node(id)
	wasRunning := n.State.Running()

	// Stop and settle
	now := uc.clock.Now()
	if err := f.Stop(id, now); err != nil {
		return nil, err
	}
	events := f.Pass(now)

	if _, err := persistDirty(ctx, uc.timers, f); err != nil {
		return nil, err
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	if uc.logger != nil && wasRunning {
		uc.logger.Info(component(id), "timer", "stopped")
	}

	return &StopTimerOutput{
		TimerID:    id,
		Name:       n.Timer.Name,
		Events:     events,
		WasRunning: wasRunning,
	}, nil
}
