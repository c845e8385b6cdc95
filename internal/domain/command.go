package domain

import "time"

// CommandKind identifies a cascade command.
type CommandKind uint8

// Cascade command kinds.
const (
	// ChildStarted informs a parent that Child opened a run-segment at At.
	ChildStarted CommandKind = iota + 1
	// ChildStopped informs a parent that Child closed its run-segment at At.
	ChildStopped
)

// String returns the kind's log representation.
func (k CommandKind) String() string {
	switch k {
	case ChildStarted:
		return "child-started"
	case ChildStopped:
		return "child-stopped"
	default:
		return "unknown"
	}
}

// Command is one hop of a start or stop cascade. Applying a command to its
// target may yield a follow-up command addressed to the target's own
// parent; the forest drains the queue until no follow-ups remain, so a
// whole cascade settles within a single user action or evaluation pass.
// Fields are ordered to minimize memory padding.
type Command struct {
	At     time.Time   // Shared instant for every hop of the cascade
	Target string      // Node receiving the command
	Child  string      // Direct child the command is about
	Kind   CommandKind // What happened to Child
}
