package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/ticktree/internal/domain"
)

// EvaluateForestInput contains the parameters for one evaluation pass.
type EvaluateForestInput struct{}

// EvaluateForestOutput contains the result of one evaluation pass.
type EvaluateForestOutput struct {
	Events  []domain.Event
	Changed int // Runtime records written back
}

// EvaluateForest is the use case for a single evaluation pass over the
// forest: completions latch, sibling exclusion settles, corrected states
// persist.
type EvaluateForest struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewEvaluateForest creates a new EvaluateForest use case.
func NewEvaluateForest(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *EvaluateForest {
	return &EvaluateForest{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute runs one evaluation pass at the current instant.
func (uc *EvaluateForest) Execute(ctx context.Context, _ EvaluateForestInput) (*EvaluateForestOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}

	events := f.Pass(uc.clock.Now())
	changed, err := persistDirty(ctx, uc.timers, f)
	if err != nil {
		return nil, err
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	if uc.logger != nil {
		uc.logger.Debug("", "tick", fmt.Sprintf("pass complete: %d changed, %d events", changed, len(events)))
	}

	return &EvaluateForestOutput{Events: events, Changed: changed}, nil
}
