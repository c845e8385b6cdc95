package domain

import "time"

// ChildRunning sentinels. Unset means the node has never delegated to a
// child. None is written when a delegated child stops, so the value stays
// distinguishable from a never-used slot.
const (
	ChildUnset = ""
	ChildNone  = "__NONE__"
)

// RunState is a node's persisted runtime state.
// Fields are ordered to minimize memory padding.
type RunState struct {
	Started      time.Time     // Start of the open run-segment; zero = not running
	ChildRunning string        // ChildUnset, ChildNone, or the authorized child id
	Elapsed      time.Duration // Accrued time from closed run-segments
	Finished     bool          // Completion latch, cleared only by Reset
}

// Running reports whether a run-segment is open.
func (s *RunState) Running() bool {
	return !s.Started.IsZero()
}

// Delegate returns the authorized child id when one is set.
func (s *RunState) Delegate() (string, bool) {
	if s.ChildRunning == ChildUnset || s.ChildRunning == ChildNone {
		return "", false
	}
	return s.ChildRunning, true
}

// Phase is the display state derived from a RunState.
type Phase string

// Display phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseDone    Phase = "done"
)

// Phase classifies the run state for display. Finished wins over an open
// segment so a corrupt record still renders as done.
func (s *RunState) Phase() Phase {
	switch {
	case s.Finished:
		return PhaseDone
	case s.Running():
		return PhaseRunning
	case s.Elapsed > 0:
		return PhasePaused
	default:
		return PhaseIdle
	}
}
