// Package domain contains core business entities and interfaces.
package domain

import "time"

// RootParentID is the ParentID value marking a top-level timer. The field
// is informational only; tree structure is discovered by walking children
// lists from the root registry.
const RootParentID = "root"

// DefaultName is substituted when a timer's name record is missing or
// unreadable.
const DefaultName = "unnamed"

// Timer is a node's persisted identity and configuration. The budget is
// fixed at creation; tree edges live in Children, ordered by creation.
type Timer struct {
	ID       string        // UUID, immutable
	Name     string        // Display name, set at creation
	ParentID string        // RootParentID for top-level timers
	Children []string      // Ordered child ids
	Total    time.Duration // Allocated budget
}

// IsRoot reports whether the timer is registered at the top level.
func (t *Timer) IsRoot() bool {
	return t.ParentID == "" || t.ParentID == RootParentID
}

// HasChild reports whether id is a direct child of this timer.
func (t *Timer) HasChild(id string) bool {
	for _, c := range t.Children {
		if c == id {
			return true
		}
	}
	return false
}

// ShortID returns the first eight characters of a timer id, used in logs
// and list output. Any unambiguous id prefix is accepted wherever a timer
// reference is expected, so short ids shown to the user remain usable as
// command arguments.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
