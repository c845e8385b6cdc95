package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/ticktree/internal/domain"
)

// DeleteTimerInput contains the parameters for deleting a timer.
type DeleteTimerInput struct {
	Ref string // Timer id or unique id prefix
}

// DeleteTimerOutput contains the result of deleting a timer.
type DeleteTimerOutput struct {
	Removed []string // Ids of the purged subtree, depth-first; empty for a no-op
	Name    string
}

// DeleteTimer is the use case for removing a timer and its subtree.
type DeleteTimer struct {
	timers   domain.TimerRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewDeleteTimer creates a new DeleteTimer use case.
func NewDeleteTimer(timers domain.TimerRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *DeleteTimer {
	return &DeleteTimer{
		timers:   timers,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute removes the referenced timer, stopping it first so the cascade
// unwinds, and purges every record of the detached subtree. Deleting an
// unknown reference is a no-op.
func (uc *DeleteTimer) Execute(ctx context.Context, in DeleteTimerInput) (*DeleteTimerOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(f, in.Ref)
	if err != nil {
		if errors.Is(err, domain.ErrTimerNotFound) {
			return &DeleteTimerOutput{}, nil
		}
		return nil, err
	}
	name := f.Node(id).Timer.Name

	// The owner must be captured before removal detaches the subtree.
	parentID, hadParent := f.Parent(id)

	now := uc.clock.Now()
	removed := f.Remove(id, now)
	events := f.Pass(now)

	// Unlink from the owner first: a crash here leaves orphaned records,
	// which are invisible, rather than dangling child ids, which would
	// materialize as default nodes.
	if hadParent {
		if err := uc.timers.SaveChildren(ctx, parentID, f.Node(parentID).Timer.Children); err != nil {
			return nil, fmt.Errorf("save children: %w", err)
		}
	} else {
		if err := uc.timers.SaveRoots(ctx, f.Roots); err != nil {
			return nil, fmt.Errorf("save roots: %w", err)
		}
	}

	if _, err := persistDirty(ctx, uc.timers, f); err != nil {
		return nil, err
	}
	for _, rid := range removed {
		if err := uc.timers.Purge(ctx, rid); err != nil {
			return nil, fmt.Errorf("purge timer: %w", err)
		}
	}
	notifyEvents(ctx, uc.notifier, uc.logger, events)

	if uc.logger != nil {
		uc.logger.Info(component(id), "timer", fmt.Sprintf("deleted: %q (%d timers)", name, len(removed)))
	}

	return &DeleteTimerOutput{Removed: removed, Name: name}, nil
}
