package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// WatchForestInput contains the parameters for the evaluation loop.
// Fields are ordered to minimize memory padding.
type WatchForestInput struct {
	OnPass   func(EvaluateForestOutput) // Called after every pass (optional)
	Interval time.Duration              // Tick interval (0 = default)
	Once     bool                       // Run a single pass and return
}

// WatchForestOutput contains the result of the evaluation loop.
type WatchForestOutput struct {
	Passes int
}

// WatchForest is the use case for the periodic evaluation loop.
type WatchForest struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewWatchForest creates a new WatchForest use case.
func NewWatchForest(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *WatchForest {
	return &WatchForest{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute evaluates the forest on a fixed interval until the context ends.
// The forest is reloaded for every pass, so edits made by other processes
// between ticks are picked up. The first pass runs immediately and its
// failure aborts the loop; later failures are logged and the loop keeps
// ticking.
func (uc *WatchForest) Execute(ctx context.Context, in WatchForestInput) (*WatchForestOutput, error) {
	// Validate interval
	interval := in.Interval
	if interval <= 0 {
		interval = domain.DefaultTickInterval
	}

	eval := NewEvaluateForest(uc.timers, uc.notifier, uc.clock, uc.logger)
	passes := 0
	pass := func() error {
		out, err := eval.Execute(ctx, EvaluateForestInput{})
		if err != nil {
			return err
		}
		passes++
		if in.OnPass != nil {
			in.OnPass(*out)
		}
		return nil
	}

	if err := pass(); err != nil {
		return nil, err
	}
	if in.Once {
		return &WatchForestOutput{Passes: passes}, nil
	}

	if uc.logger != nil {
		uc.logger.Info("", "tick", fmt.Sprintf("watching every %s", interval))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Ctrl+C (context.Canceled) is a normal exit, not an error
			if ctx.Err() == context.Canceled {
				return &WatchForestOutput{Passes: passes}, nil
			}
			return nil, ctx.Err()
		case <-ticker.C:
			if err := pass(); err != nil {
				if uc.logger != nil {
					uc.logger.Error("", "tick", fmt.Sprintf("pass failed: %v", err))
				}
			}
		}
	}
}
