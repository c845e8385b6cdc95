package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// CreateTimerInput contains the parameters for creating a timer.
// Fields are ordered to minimize memory padding.
type CreateTimerInput struct {
	Name   string        // Timer name (required)
	Parent string        // Parent timer reference (optional, empty = top-level)
	Total  time.Duration // Requested budget
}

// CreateTimerOutput contains the result of creating a timer.
// Fields are ordered to minimize memory padding.
type CreateTimerOutput struct {
	TimerID string
	Name    string
	Total   time.Duration // Granted budget after capping
	Capped  bool          // Request exceeded the parent's unallocated budget
}

// CreateTimer is the use case for adding a timer to the forest.
type CreateTimer struct {
	timers domain.TimerRepository
	ids    domain.IDSource
	logger domain.Logger
}

// NewCreateTimer creates a new CreateTimer use case.
func NewCreateTimer(timers domain.TimerRepository, ids domain.IDSource, logger domain.Logger) *CreateTimer {
	return &CreateTimer{
		timers: timers,
		ids:    ids,
		logger: logger,
	}
}

// Execute creates a timer with the given input. A child's requested budget
// is capped to the parent's unallocated budget at this moment; the cap is
// not re-checked later because budgets are immutable after creation.
func (uc *CreateTimer) Execute(ctx context.Context, in CreateTimerInput) (*CreateTimerOutput, error) {
	// Validate
	if in.Name == "" {
		return nil, domain.ErrEmptyName
	}
	if in.Total < 0 {
		return nil, domain.ErrNegativeBudget
	}

	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}

	// Resolve parent if specified
	var parent *domain.Node
	parentID := domain.RootParentID
	if in.Parent != "" {
		id, err := resolveID(f, in.Parent)
		if err != nil {
			if errors.Is(err, domain.ErrTimerNotFound) {
				return nil, domain.ErrParentNotFound
			}
			return nil, err
		}
		parentID = id
		parent = f.Node(id)
	}

	// Cap the budget at the parent's unallocated time
	total := in.Total
	capped := false
	if parent != nil {
		available := parent.Timer.Total - f.ChildrenTotal(parentID)
		if available < 0 {
			available = 0
		}
		if total > available {
			total = available
			capped = true
		}
	}

	// Create timer
	id := uc.ids.NewID()
	timer := domain.Timer{
		ID:       id,
		Name:     in.Name,
		ParentID: parentID,
		Total:    total,
	}
	if err := uc.timers.SaveTimer(ctx, timer); err != nil {
		return nil, fmt.Errorf("save timer: %w", err)
	}

	// Link into the owner's ordered list
	if parent != nil {
		children := append(parent.Timer.Children, id)
		if err := uc.timers.SaveChildren(ctx, parentID, children); err != nil {
			return nil, fmt.Errorf("save children: %w", err)
		}
	} else {
		roots := append(f.Roots, id)
		if err := uc.timers.SaveRoots(ctx, roots); err != nil {
			return nil, fmt.Errorf("save roots: %w", err)
		}
	}

	if uc.logger != nil {
		uc.logger.Info(component(id), "timer", fmt.Sprintf("created: %q", in.Name))
	}

	return &CreateTimerOutput{TimerID: id, Name: in.Name, Total: total, Capped: capped}, nil
}
