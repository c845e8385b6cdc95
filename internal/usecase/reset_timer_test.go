package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/ticktree/internal/domain"
)

func TestResetTimer_Execute_ClearsFinished(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	forestFixture(repo)
	repo.states["email"] = domain.RunState{Elapsed: 20 * time.Minute, Finished: true}
	uc := NewResetTimer(repo, &mockNotifier{}, &mockClock{now: time.Now()}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), ResetTimerInput{Ref: "email"})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Restarted)

	st := repo.states["email"]
	assert.Equal(t, time.Duration(0), st.Elapsed)
	assert.False(t, st.Finished)
	assert.True(t, st.Started.IsZero())
}

func TestResetTimer_Execute_RunningRestartsSegment(t *testing.T) {
	// Setup
	repo := newMockTimerRepository()
	forestFixture(repo)
	t0 := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	repo.states["email"] = domain.RunState{Started: t0, Elapsed: 5 * time.Minute}
	repo.states["work"] = domain.RunState{Started: t0, ChildRunning: "email"}
	clock := &mockClock{now: t0.Add(10 * time.Minute)}
	uc := NewResetTimer(repo, &mockNotifier{}, clock, nil)

	// Execute
	out, err := uc.Execute(context.Background(), ResetTimerInput{Ref: "email"})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Restarted)

	// Fresh window, fresh segment; the parent is untouched
	st := repo.states["email"]
	assert.Equal(t, time.Duration(0), st.Elapsed)
	assert.Equal(t, clock.now, st.Started)
	assert.Equal(t, t0, repo.states["work"].Started)
}

func TestResetTimer_Execute_NotFound(t *testing.T) {
	uc := NewResetTimer(newMockTimerRepository(), &mockNotifier{}, &mockClock{}, nil)

	_, err := uc.Execute(context.Background(), ResetTimerInput{Ref: "missing"})

	assert.ErrorIs(t, err, domain.ErrTimerNotFound)
}
