package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/ticktree/internal/domain"
)

func TestEvaluateForest_Execute_QuietForest(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	forestFixture(repo)
	uc := NewEvaluateForest(repo, &mockNotifier{}, &mockClock{now: time.Now()}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), EvaluateForestInput{})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, out.Events)
	assert.Equal(t, 0, out.Changed)
}

func TestEvaluateForest_Execute_CompletionCascades(t *testing.T) {
	// Setup: the running leaf ran past its budget
	repo := newMockTimerRepository()
	forestFixture(repo)
	t0 := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	repo.states["email"] = domain.RunState{Started: t0}
	repo.states["work"] = domain.RunState{Started: t0, ChildRunning: "email"}
	notifier := &mockNotifier{}
	uc := NewEvaluateForest(repo, notifier, &mockClock{now: t0.Add(20 * time.Minute)}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), EvaluateForestInput{})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, domain.EventFinished, out.Events[0].Kind)
	assert.Equal(t, 2, out.Changed)

	assert.True(t, repo.states["email"].Finished)
	assert.Equal(t, 20*time.Minute, repo.states["work"].Elapsed)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, domain.EventFinished, notifier.events[0].Kind)
}

func TestEvaluateForest_Execute_NotifyFailureIsSwallowed(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	forestFixture(repo)
	t0 := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	repo.states["email"] = domain.RunState{Started: t0}
	repo.states["work"] = domain.RunState{Started: t0, ChildRunning: "email"}
	notifier := &mockNotifier{err: assert.AnError}
	uc := NewEvaluateForest(repo, notifier, &mockClock{now: t0.Add(time.Hour)}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), EvaluateForestInput{})

	// Assert: the pass succeeds even though delivery failed
	require.NoError(t, err)
	assert.Len(t, out.Events, 1)
	assert.True(t, repo.states["email"].Finished)
}
