package usecase

import (
	"context"

	"github.com/runoshun/ticktree/internal/domain"
)

// StartTimerInput contains the parameters for starting a timer.
type StartTimerInput struct {
	Ref string // Timer id or unique id prefix
}

// StartTimerOutput contains the result of starting a timer.
// Fields are ordered to minimize memory padding.
type StartTimerOutput struct {
	TimerID        string
	Name           string
	Events         []domain.Event // Corrections observed by the follow-up evaluation
	AlreadyRunning bool           // The timer was running; nothing changed
}

// StartTimer is the use case for opening a run-segment on a timer.
type StartTimer struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewStartTimer creates a new StartTimer use case.
func NewStartTimer(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *StartTimer {
	return &StartTimer{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute starts the referenced timer and winds the start cascade through
// its ancestors. An evaluation pass follows at the same instant so sibling
// exclusion settles before the command returns.
func (uc *StartTimer) Execute(ctx context.Context, in StartTimerInput) (*StartTimerOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(f, in.Ref)
	if err != nil {
		return nil, err
	}
	n := f.Node(id)
	alreadyRunning := n.State.Running()

	// Start and settle
	now := uc.clock.Now()
	if err := f.Start(id, now); err != nil {
		return nil, err
	}
	events := f.Pass(now)

	if _, err := persistDirty(ctx, uc.timers, f); err != nil {
		return nil, err
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	if uc.logger != nil && !alreadyRunning {
		uc.logger.Info(component(id), "timer", "started")
	}

	return &StartTimerOutput{
		TimerID:        id,
		Name:           n.Timer.Name,
		Events:         events,
		AlreadyRunning: alreadyRunning,
	}, nil
}
