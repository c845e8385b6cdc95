package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/ticktree/internal/domain"
)

// ImportPlanInput contains the parameters for importing a plan.
// Fields are ordered to minimize memory padding.
type ImportPlanInput struct {
	Data   []byte // Plan document
	Parent string // Parent timer reference (optional, empty = top-level)
	DryRun bool   // Resolve and cap without writing
}

// ImportedTimer describes one timer created (or planned) by an import.
// Fields are ordered to minimize memory padding.
type ImportedTimer struct {
	TimerID   string
	Name      string
	Requested time.Duration
	Granted   time.Duration
	Depth     int
	Capped    bool
}

// ImportPlanOutput contains the result of importing a plan.
type ImportPlanOutput struct {
	Timers []ImportedTimer // Depth-first, the plan root first
	DryRun bool
}

// ImportPlan is the use case for creating a whole timer subtree from a plan
// document.
type ImportPlan struct {
	timers domain.TimerRepository
	plans  domain.PlanCodec
	ids    domain.IDSource
	logger domain.Logger
}

// NewImportPlan creates a new ImportPlan use case.
func NewImportPlan(timers domain.TimerRepository, plans domain.PlanCodec, ids domain.IDSource, logger domain.Logger) *ImportPlan {
	return &ImportPlan{
		timers: timers,
		plans:  plans,
		ids:    ids,
		logger: logger,
	}
}

// Execute decodes the plan and creates its timers top-down. Budgets are
// capped the same way single creation caps them: each child is granted at
// most what remains unallocated under its parent at that point, in document
// order. Children are linked and written bottom-up so a partial failure
// leaves orphaned records rather than dangling child ids.
func (uc *ImportPlan) Execute(ctx context.Context, in ImportPlanInput) (*ImportPlanOutput, error) {
	// Decode and validate
	plan, err := uc.plans.Decode(in.Data)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
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

	out := &ImportPlanOutput{DryRun: in.DryRun}

	// build creates p's subtree and returns its id and granted budget.
	var build func(p domain.Plan, owner string, available time.Duration, constrained bool, depth int) (string, time.Duration, error)
	build = func(p domain.Plan, owner string, available time.Duration, constrained bool, depth int) (string, time.Duration, error) {
		granted := p.Total
		capped := false
		if constrained {
			if available < 0 {
				available = 0
			}
			if granted > available {
				granted = available
				capped = true
			}
		}

		id := uc.ids.NewID()
		out.Timers = append(out.Timers, ImportedTimer{
			TimerID:   id,
			Name:      p.Name,
			Requested: p.Total,
			Granted:   granted,
			Depth:     depth,
			Capped:    capped,
		})

		var children []string
		remaining := granted
		for _, c := range p.Children {
			cid, cgranted, err := build(c, id, remaining, true, depth+1)
			if err != nil {
				return "", 0, err
			}
			children = append(children, cid)
			remaining -= cgranted
		}

		if !in.DryRun {
			t := domain.Timer{
				ID:       id,
				Name:     p.Name,
				ParentID: owner,
				Children: children,
				Total:    granted,
			}
			if err := uc.timers.SaveTimer(ctx, t); err != nil {
				return "", 0, fmt.Errorf("save timer: %w", err)
			}
		}
		return id, granted, nil
	}

	available := time.Duration(0)
	constrained := false
	if parent != nil {
		available = parent.Timer.Total - f.ChildrenTotal(parentID)
		constrained = true
	}
	rootID, _, err := build(plan, parentID, available, constrained, 0)
	if err != nil {
		return nil, err
	}

	// Link into the owner's ordered list
	if !in.DryRun {
		if parent != nil {
			children := append(parent.Timer.Children, rootID)
			if err := uc.timers.SaveChildren(ctx, parentID, children); err != nil {
				return nil, fmt.Errorf("save children: %w", err)
			}
		} else {
			roots := append(f.Roots, rootID)
			if err := uc.timers.SaveRoots(ctx, roots); err != nil {
				return nil, fmt.Errorf("save roots: %w", err)
			}
		}

		if uc.logger != nil {
			uc.logger.Info(component(rootID), "plan", fmt.Sprintf("imported: %q (%d timers)", plan.Name, len(out.Timers)))
		}
	}

	return out, nil
}
