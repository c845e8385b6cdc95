package domain

import "time"

// CompletionSlack is the threshold under which a running timer's remaining
// time counts as exhausted. Evaluation runs on a coarse tick, so completion
// fires a hair early instead of overshooting the budget by a full interval.
const CompletionSlack = 10 * time.Millisecond

// Derived holds the quantities recomputed from persisted state at every
// evaluation point. Remaining is not clamped; between ticks it may dip
// below zero, and display layers clamp it for rendering.
type Derived struct {
	Segment       time.Duration // Length of the open run-segment, zero when idle
	LiveElapsed   time.Duration // Elapsed plus the open segment
	Remaining     time.Duration // Total minus LiveElapsed
	ChildrenTotal time.Duration // Sum of the direct children's budgets
	Unallocated   time.Duration // Total minus ChildrenTotal
	Startable     bool          // Unallocated > 0
}

// Derive computes the derived quantities for one node at the given instant.
// childrenTotal is the sum of the node's direct children's budgets, read
// from their own configuration records.
func Derive(t Timer, st RunState, childrenTotal time.Duration, now time.Time) Derived {
	var seg time.Duration
	if st.Running() {
		seg = now.Sub(st.Started)
	}
	live := st.Elapsed + seg
	d := Derived{
		Segment:       seg,
		LiveElapsed:   live,
		Remaining:     t.Total - live,
		ChildrenTotal: childrenTotal,
		Unallocated:   t.Total - childrenTotal,
	}
	d.Startable = d.Unallocated > 0
	return d
}

// Evaluation is the outcome of evaluating a single node: the derived
// quantities plus any state corrections that must be persisted.
type Evaluation struct {
	Derived  Derived
	State    RunState
	Changed  bool // State differs from the input
	Finished bool // This evaluation completed the timer
	Stopped  bool // This evaluation force-stopped the timer
}

// Evaluate recomputes one node against the shared clock instant and applies
// the state corrections the persisted values call for. sibling is the
// parent's ChildRunning value, ChildUnset for roots: when it is set and
// names anything other than this node, a running node is force-stopped
// because another child holds the parent's run slot.
//
// Corrections are checked in order. A finished record with an open segment
// drops the segment without accrual. A running node whose remaining time
// falls under the slack completes: the segment accrues, the latch sets, and
// any delegated child slot moves to ChildNone so descendants observe the
// stop on their next evaluation. Only then is the sibling signal applied.
func Evaluate(t Timer, st RunState, childrenTotal time.Duration, now time.Time, sibling string) Evaluation {
	ev := Evaluation{State: st}

	if ev.State.Finished && ev.State.Running() {
		ev.State.Started = time.Time{}
		ev.Changed = true
	}

	d := Derive(t, ev.State, childrenTotal, now)
	if ev.State.Running() && d.Remaining < CompletionSlack {
		ev.State.Elapsed += now.Sub(ev.State.Started)
		ev.State.Started = time.Time{}
		ev.State.Finished = true
		if _, ok := ev.State.Delegate(); ok {
			ev.State.ChildRunning = ChildNone
		}
		ev.Changed = true
		ev.Finished = true
	}

	if ev.State.Running() && sibling != ChildUnset && sibling != t.ID {
		ev.State.Elapsed += now.Sub(ev.State.Started)
		ev.State.Started = time.Time{}
		if _, ok := ev.State.Delegate(); ok {
			ev.State.ChildRunning = ChildNone
		}
		ev.Changed = true
		ev.Stopped = true
	}

	ev.Derived = Derive(t, ev.State, childrenTotal, now)
	return ev
}
