package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerive_Idle(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}
	st := RunState{Elapsed: 10 * time.Minute}

	d := Derive(timer, st, 20*time.Minute, now)

	assert.Equal(t, time.Duration(0), d.Segment)
	assert.Equal(t, 10*time.Minute, d.LiveElapsed)
	assert.Equal(t, 50*time.Minute, d.Remaining)
	assert.Equal(t, 20*time.Minute, d.ChildrenTotal)
	assert.Equal(t, 40*time.Minute, d.Unallocated)
	assert.True(t, d.Startable)
}

func TestDerive_Running(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}
	st := RunState{
		Started: now.Add(-15 * time.Minute),
		Elapsed: 10 * time.Minute,
	}

	d := Derive(timer, st, 0, now)

	assert.Equal(t, 15*time.Minute, d.Segment)
	assert.Equal(t, 25*time.Minute, d.LiveElapsed)
	assert.Equal(t, 35*time.Minute, d.Remaining)
}

func TestDerive_RemainingNotClamped(t *testing.T) {
	// Between ticks a running timer may overshoot its budget; the raw
	// negative value must survive so callers can clamp at render time.
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Minute}
	st := RunState{Started: now.Add(-90 * time.Second)}

	d := Derive(timer, st, 0, now)

	assert.Equal(t, -30*time.Second, d.Remaining)
}

func TestDerive_StartableRequiresUnallocated(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}

	fullySubdivided := Derive(timer, RunState{}, time.Hour, now)
	assert.False(t, fullySubdivided.Startable)

	overSubdivided := Derive(timer, RunState{}, 2*time.Hour, now)
	assert.False(t, overSubdivided.Startable)
	assert.Equal(t, -time.Hour, overSubdivided.Unallocated)

	zeroBudget := Derive(Timer{ID: "b"}, RunState{}, 0, now)
	assert.False(t, zeroBudget.Startable)
}

func TestEvaluate_NoCorrectionsOnHealthyState(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}
	st := RunState{Started: now.Add(-5 * time.Minute)}

	ev := Evaluate(timer, st, 0, now, ChildUnset)

	assert.False(t, ev.Changed)
	assert.False(t, ev.Finished)
	assert.False(t, ev.Stopped)
	assert.Equal(t, st, ev.State)
}

func TestEvaluate_CompletionAtExactBudget(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: 20 * time.Minute}
	st := RunState{Started: now.Add(-20 * time.Minute)}

	ev := Evaluate(timer, st, 0, now, ChildUnset)

	assert.True(t, ev.Changed)
	assert.True(t, ev.Finished)
	assert.True(t, ev.State.Finished)
	assert.False(t, ev.State.Running())
	assert.Equal(t, 20*time.Minute, ev.State.Elapsed)
}

func TestEvaluate_CompletionSlackBoundary(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Minute}

	tests := []struct {
		name     string
		segment  time.Duration
		finished bool
	}{
		{"well under budget", 30 * time.Second, false},
		{"just outside the slack", time.Minute - CompletionSlack, false},
		{"inside the slack", time.Minute - CompletionSlack + time.Millisecond, true},
		{"exactly at budget", time.Minute, true},
		{"overshot", time.Minute + 3*time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := RunState{Started: now.Add(-tt.segment)}
			ev := Evaluate(timer, st, 0, now, ChildUnset)
			assert.Equal(t, tt.finished, ev.Finished)
			assert.Equal(t, tt.finished, ev.State.Finished)
		})
	}
}

func TestEvaluate_CompletionAccruesOpenSegment(t *testing.T) {
	// The overshoot is real time spent, so the full segment accrues rather
	// than being truncated at the budget.
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Minute}
	st := RunState{Started: now.Add(-65 * time.Second), Elapsed: 0}

	ev := Evaluate(timer, st, 0, now, ChildUnset)

	assert.True(t, ev.Finished)
	assert.Equal(t, 65*time.Second, ev.State.Elapsed)
}

func TestEvaluate_CompletionReleasesDelegatedChild(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Minute, Children: []string{"c"}}
	st := RunState{
		Started:      now.Add(-2 * time.Minute),
		ChildRunning: "c",
	}

	ev := Evaluate(timer, st, 30*time.Second, now, ChildUnset)

	assert.True(t, ev.Finished)
	assert.Equal(t, ChildNone, ev.State.ChildRunning)
}

func TestEvaluate_SiblingExclusionStopsRunningTimer(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}
	st := RunState{Started: now.Add(-10 * time.Minute)}

	ev := Evaluate(timer, st, 0, now, "b")

	assert.True(t, ev.Changed)
	assert.True(t, ev.Stopped)
	assert.False(t, ev.Finished)
	assert.False(t, ev.State.Running())
	assert.Equal(t, 10*time.Minute, ev.State.Elapsed)
	assert.False(t, ev.State.Finished)
}

func TestEvaluate_SiblingExclusionReleasesOwnDelegate(t *testing.T) {
	// A force-stopped subtree root hands its own delegate slot to ChildNone
	// so the descendants observe the stop on their next evaluation.
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour, Children: []string{"leaf"}}
	st := RunState{
		Started:      now.Add(-time.Minute),
		ChildRunning: "leaf",
	}

	ev := Evaluate(timer, st, 30*time.Minute, now, "b")

	assert.True(t, ev.Stopped)
	assert.Equal(t, ChildNone, ev.State.ChildRunning)
}

func TestEvaluate_SiblingSignal(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}

	tests := []struct {
		name    string
		sibling string
		stopped bool
	}{
		{"unset means no exclusion check", ChildUnset, false},
		{"own id keeps the slot", "a", false},
		{"none sentinel stops", ChildNone, true},
		{"other child stops", "b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := RunState{Started: now.Add(-time.Minute)}
			ev := Evaluate(timer, st, 0, now, tt.sibling)
			assert.Equal(t, tt.stopped, ev.Stopped)
		})
	}
}

func TestEvaluate_SiblingExclusionIgnoresIdleTimer(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Hour}
	st := RunState{Elapsed: 5 * time.Minute}

	ev := Evaluate(timer, st, 0, now, "b")

	assert.False(t, ev.Changed)
	assert.False(t, ev.Stopped)
}

func TestEvaluate_FinishedWithOpenSegmentRepaired(t *testing.T) {
	// A finished record carrying a start timestamp is contradictory; the
	// segment is dropped without accrual.
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Minute}
	st := RunState{
		Started:  now.Add(-time.Hour),
		Elapsed:  time.Minute,
		Finished: true,
	}

	ev := Evaluate(timer, st, 0, now, ChildUnset)

	assert.True(t, ev.Changed)
	assert.False(t, ev.Finished, "repair must not re-report completion")
	assert.False(t, ev.State.Running())
	assert.Equal(t, time.Minute, ev.State.Elapsed)
	assert.True(t, ev.State.Finished)
}

func TestEvaluate_CompletionWinsOverSiblingExclusion(t *testing.T) {
	// When the budget runs out in the same instant the slot is lost, the
	// timer completes: the latch is the stronger transition.
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timer := Timer{ID: "a", Total: time.Minute}
	st := RunState{Started: now.Add(-2 * time.Minute)}

	ev := Evaluate(timer, st, 0, now, "b")

	assert.True(t, ev.Finished)
	assert.False(t, ev.Stopped)
	assert.True(t, ev.State.Finished)
}
