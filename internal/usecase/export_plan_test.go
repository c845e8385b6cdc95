package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/ticktree/internal/domain"
)

func TestExportPlan_Execute_CapturesSubtree(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	forestFixture(repo)
	codec := &mockPlanCodec{encoded: []byte("rendered")}
	uc := NewExportPlan(repo, codec)

	// Execute
	out, err := uc.Execute(context.Background(), ExportPlanInput{Ref: "work"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("rendered"), out.Data)
	assert.Equal(t, "Work", out.Name)

	want := domain.Plan{
		Name:  "Work",
		Total: time.Hour,
		Children: []domain.Plan{
			{Name: "Email", Total: 20 * time.Minute},
			{Name: "Review", Total: 40 * time.Minute},
		},
	}
	assert.Equal(t, want, codec.lastPlan)
}

func TestExportPlan_Execute_LeavesRuntimeBehind(t *testing.T) {
	// Setup: a finished timer exports the same as a fresh one
	repo := newMockTimerRepository()
	forestFixture(repo)
	repo.states["email"] = domain.RunState{Elapsed: 20 * time.Minute, Finished: true}
	codec := &mockPlanCodec{encoded: []byte("rendered")}
	uc := NewExportPlan(repo, codec)

	// Execute
	_, err := uc.Execute(context.Background(), ExportPlanInput{Ref: "email"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.Plan{Name: "Email", Total: 20 * time.Minute}, codec.lastPlan)
}

func TestExportPlan_Execute_NotFound(t *testing.T) {
	uc := NewExportPlan(newMockTimerRepository(), &mockPlanCodec{})

	_, err := uc.Execute(context.Background(), ExportPlanInput{Ref: "missing"})

	assert.ErrorIs(t, err, domain.ErrTimerNotFound)
}
