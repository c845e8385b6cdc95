package usecase

import (
	"context"

	"github.com/runoshun/ticktree/internal/domain"
)

// ExportPlanInput contains the parameters for exporting a plan.
type ExportPlanInput struct {
	Ref string // Timer id or unique id prefix
}

// ExportPlanOutput contains the rendered plan document.
type ExportPlanOutput struct {
	Data []byte
	Name string
}

// ExportPlan is the use case for capturing a timer subtree as a plan
// document. Only configuration is exported; runtime state stays behind.
type ExportPlan struct {
	timers domain.TimerRepository
	plans  domain.PlanCodec
}

// NewExportPlan creates a new ExportPlan use case.
func NewExportPlan(timers domain.TimerRepository, plans domain.PlanCodec) *ExportPlan {
	return &ExportPlan{
		timers: timers,
		plans:  plans,
	}
}

// Execute renders the referenced timer's subtree as a plan document.
func (uc *ExportPlan) Execute(ctx context.Context, in ExportPlanInput) (*ExportPlanOutput, error) {
	f, err := loadForest(ctx, uc.timers)
	if err != nil {
		return nil, err
	}
	id, err := resolveID(f, in.Ref)
	if err != nil {
		return nil, err
	}

	plan, ok := f.PlanFrom(id)
	if !ok {
		return nil, domain.ErrTimerNotFound
	}
	data, err := uc.plans.Encode(plan)
	if err != nil {
		return nil, err
	}

	return &ExportPlanOutput{Data: data, Name: plan.Name}, nil
}
