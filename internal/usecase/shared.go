// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/ticktree/internal/domain"
)

// loadForest reads the reachable timer arena from the repository.
func loadForest(ctx context.Context, timers domain.TimerRepository) (*domain.Forest, error) {
	f, err := timers.Forest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load forest: %w", err)
	}
	return f, nil
}

// resolveID maps a user-supplied reference to a timer id. An exact id wins;
// otherwise the reference must be a unique id prefix.
func resolveID(f *domain.Forest, ref string) (string, error) {
	if ref == "" {
		return "", domain.ErrTimerNotFound
	}
	if f.Node(ref) != nil {
		return ref, nil
	}

	var match string
	for id := range f.Nodes {
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", domain.ErrAmbiguousID
			}
			match = id
		}
	}
	if match == "" {
		return "", domain.ErrTimerNotFound
	}
	return match, nil
}

// persistDirty writes every runtime record the forest reports changed and
// returns how many were written.
func persistDirty(ctx context.Context, timers domain.TimerRepository, f *domain.Forest) (int, error) {
	ids := f.TakeDirty()
	for _, id := range ids {
		if err := timers.SaveState(ctx, id, f.Node(id).State); err != nil {
			return 0, fmt.Errorf("save state: %w", err)
		}
	}
	return len(ids), nil
}

// notifyEvents logs every evaluation event and delivers completions through
// the notifier. Delivery failures are logged, never returned.
func notifyEvents(ctx context.Context, notifier domain.Notifier, logger domain.Logger, events []domain.Event) {
	for _, ev := range events {
		if logger != nil {
			logger.Info(component(ev.ID), "evaluate", fmt.Sprintf("%s: %q", ev.Kind, ev.Name))
		}
		if ev.Kind != domain.EventFinished || notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, ev); err != nil && logger != nil {
			logger.Warn(component(ev.ID), "notify", fmt.Sprintf("delivery failed: %v", err))
		}
	}
}

// component names a timer for log entries.
func component(id string) string {
	return "timer-" + domain.ShortID(id)
}
