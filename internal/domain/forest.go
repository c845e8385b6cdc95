package domain

import "time"

// Node pairs a timer's configuration with its runtime state inside a
// Forest.
type Node struct {
	Timer Timer
	State RunState
}

// EventKind identifies a state transition observed during evaluation.
type EventKind uint8

// Evaluation event kinds.
const (
	// EventFinished reports a timer whose budget ran out.
	EventFinished EventKind = iota + 1
	// EventForceStopped reports a timer paused by sibling exclusion.
	EventForceStopped
)

// String returns the kind's log representation.
func (k EventKind) String() string {
	switch k {
	case EventFinished:
		return "finished"
	case EventForceStopped:
		return "force-stopped"
	default:
		return "unknown"
	}
}

// Event reports one state transition from an evaluation pass.
type Event struct {
	ID   string
	Name string
	Kind EventKind
}

// Forest is the in-memory arena of timer nodes plus the ordered root
// registry. It is loaded from the repository, mutated by run-control
// operations and evaluation passes, and written back by persisting the
// nodes it reports dirty. A timer exists exactly when it is reachable from
// the registry; stray records in the store are invisible here.
type Forest struct {
	Roots []string
	Nodes map[string]*Node

	parents map[string]string   // child id -> parent id
	dirty   map[string]struct{} // ids whose runtime state changed
}

// NewForest builds a forest over the given roots and nodes and indexes the
// parent edges.
func NewForest(roots []string, nodes map[string]*Node) *Forest {
	f := &Forest{
		Roots: roots,
		Nodes: nodes,
		dirty: make(map[string]struct{}),
	}
	f.reindex()
	return f
}

func (f *Forest) reindex() {
	f.parents = make(map[string]string, len(f.Nodes))
	for id, n := range f.Nodes {
		for _, c := range n.Timer.Children {
			if _, ok := f.Nodes[c]; ok {
				f.parents[c] = id
			}
		}
	}
}

// Node returns the node for id, or nil when id is not part of the forest.
func (f *Forest) Node(id string) *Node {
	return f.Nodes[id]
}

// Parent returns the parent id of a node, if it has one.
func (f *Forest) Parent(id string) (string, bool) {
	p, ok := f.parents[id]
	return p, ok
}

// Len reports the number of nodes in the arena.
func (f *Forest) Len() int {
	return len(f.Nodes)
}

// ChildrenTotal sums the budgets of a node's direct children.
func (f *Forest) ChildrenTotal(id string) time.Duration {
	n := f.Nodes[id]
	if n == nil {
		return 0
	}
	var sum time.Duration
	for _, c := range n.Timer.Children {
		if cn := f.Nodes[c]; cn != nil {
			sum += cn.Timer.Total
		}
	}
	return sum
}

// Derive computes the display quantities for one node at the given instant
// without applying corrections.
func (f *Forest) Derive(id string, now time.Time) (Derived, bool) {
	n := f.Nodes[id]
	if n == nil {
		return Derived{}, false
	}
	return Derive(n.Timer, n.State, f.ChildrenTotal(id), now), true
}

// Walk visits every reachable node depth-first, in registry order and then
// child order. Unresolvable child ids are skipped; repeated ids are visited
// once, which also bounds walks over corrupted children lists.
func (f *Forest) Walk(fn func(id string, depth int)) {
	seen := make(map[string]struct{}, len(f.Nodes))
	for _, r := range f.Roots {
		f.walk(r, 0, seen, fn)
	}
}

// WalkFrom visits id's subtree depth-first, the target itself at depth 0.
func (f *Forest) WalkFrom(id string, fn func(id string, depth int)) {
	seen := make(map[string]struct{})
	f.walk(id, 0, seen, fn)
}

func (f *Forest) walk(id string, depth int, seen map[string]struct{}, fn func(id string, depth int)) {
	if _, dup := seen[id]; dup {
		return
	}
	seen[id] = struct{}{}
	n := f.Nodes[id]
	if n == nil {
		return
	}
	fn(id, depth)
	for _, c := range n.Timer.Children {
		f.walk(c, depth+1, seen, fn)
	}
}

func (f *Forest) markDirty(id string) {
	f.dirty[id] = struct{}{}
}

// TakeDirty returns the ids whose runtime state changed since the last
// call, in walk order, and resets the dirty set.
func (f *Forest) TakeDirty() []string {
	if len(f.dirty) == 0 {
		return nil
	}
	ids := make([]string, 0, len(f.dirty))
	f.Walk(func(id string, _ int) {
		if _, ok := f.dirty[id]; ok {
			ids = append(ids, id)
		}
	})
	f.dirty = make(map[string]struct{})
	return ids
}

// Start opens a run-segment on id at the given instant and winds the start
// cascade: every ancestor on the path records its side of the path as the
// running child, idle ancestors are promoted with the same timestamp, and
// the climb ends at the first ancestor that was already running or is
// finished. Starting a running timer is a no-op.
func (f *Forest) Start(id string, now time.Time) error {
	n := f.Nodes[id]
	if n == nil {
		return ErrTimerNotFound
	}
	if n.State.Finished {
		return ErrTimerFinished
	}
	if n.State.Running() {
		return nil
	}
	if d := Derive(n.Timer, n.State, f.ChildrenTotal(id), now); !d.Startable {
		return ErrNotStartable
	}

	n.State.Started = now
	f.markDirty(id)
	if p, ok := f.parents[id]; ok {
		f.drain([]Command{{Kind: ChildStarted, Target: p, Child: id, At: now}})
	}
	return nil
}

// Stop closes the run-segment on id at the given instant and unwinds the
// stop cascade: every ancestor still tracking the stopping child clears its
// delegate slot and stops too. Stopping a timer that is not running is a
// no-op.
func (f *Forest) Stop(id string, now time.Time) error {
	n := f.Nodes[id]
	if n == nil {
		return ErrTimerNotFound
	}
	if !n.State.Running() {
		return nil
	}

	n.State.Elapsed += now.Sub(n.State.Started)
	n.State.Started = time.Time{}
	if _, ok := n.State.Delegate(); ok {
		n.State.ChildRunning = ChildNone
	}
	f.markDirty(id)
	if p, ok := f.parents[id]; ok {
		f.drain([]Command{{Kind: ChildStopped, Target: p, Child: id, At: now}})
	}
	return nil
}

// Reset zeroes the accounting window: elapsed returns to zero and the
// completion latch clears. A running timer stays running with its segment
// restarted at the given instant; no cascade fires because the node never
// left the running state.
func (f *Forest) Reset(id string, now time.Time) error {
	n := f.Nodes[id]
	if n == nil {
		return ErrTimerNotFound
	}

	running := n.State.Running()
	n.State.Elapsed = 0
	n.State.Finished = false
	if running {
		n.State.Started = now
	} else {
		n.State.Started = time.Time{}
	}
	f.markDirty(id)
	return nil
}

// Remove detaches id from its owner, the parent's children list or the
// root registry, and returns every id of the detached subtree depth-first
// for purging. A running timer is stopped first so the cascade unwinds
// while the node still exists. Removing an unknown id returns nil.
func (f *Forest) Remove(id string, now time.Time) []string {
	n := f.Nodes[id]
	if n == nil {
		return nil
	}
	_ = f.Stop(id, now)

	if p, ok := f.parents[id]; ok {
		pn := f.Nodes[p]
		pn.Timer.Children = removeID(pn.Timer.Children, id)
	} else {
		f.Roots = removeID(f.Roots, id)
	}

	var subtree []string
	var collect func(string)
	collect = func(cur string) {
		cn := f.Nodes[cur]
		if cn == nil {
			return
		}
		delete(f.Nodes, cur)
		delete(f.parents, cur)
		delete(f.dirty, cur)
		subtree = append(subtree, cur)
		for _, c := range cn.Timer.Children {
			collect(c)
		}
	}
	collect(id)
	return subtree
}

// Pass runs one evaluation sweep over the whole forest at the given
// instant. Each node is evaluated against its parent's corrected
// ChildRunning value, so an authorization change propagates down within
// the pass. Completions enqueue stop cascades that drain after the walk,
// letting ancestors settle at the same instant. The returned events report
// completions and force-stops in walk order.
func (f *Forest) Pass(now time.Time) []Event {
	var events []Event
	var queue []Command

	seen := make(map[string]struct{}, len(f.Nodes))
	var walk func(id, sibling string)
	walk = func(id, sibling string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		n := f.Nodes[id]
		if n == nil {
			return
		}

		ev := Evaluate(n.Timer, n.State, f.ChildrenTotal(id), now, sibling)
		if ev.Changed {
			n.State = ev.State
			f.markDirty(id)
		}
		if ev.Finished {
			events = append(events, Event{Kind: EventFinished, ID: id, Name: n.Timer.Name})
			if p, ok := f.parents[id]; ok {
				queue = append(queue, Command{Kind: ChildStopped, Target: p, Child: id, At: now})
			}
		}
		if ev.Stopped {
			events = append(events, Event{Kind: EventForceStopped, ID: id, Name: n.Timer.Name})
		}

		for _, c := range n.Timer.Children {
			walk(c, n.State.ChildRunning)
		}
	}
	for _, r := range f.Roots {
		walk(r, ChildUnset)
	}

	f.drain(queue)
	return events
}

// apply executes one cascade command and returns the follow-up hop, if the
// cascade continues upward.
func (f *Forest) apply(c Command) []Command {
	n := f.Nodes[c.Target]
	if n == nil {
		return nil
	}

	switch c.Kind {
	case ChildStarted:
		if n.State.ChildRunning != c.Child {
			n.State.ChildRunning = c.Child
			f.markDirty(c.Target)
		}
		// An already running ancestor keeps its segment; a finished one
		// stays finished. Either way the climb ends here.
		if n.State.Running() || n.State.Finished {
			return nil
		}
		n.State.Started = c.At
		f.markDirty(c.Target)
		if p, ok := f.parents[c.Target]; ok {
			return []Command{{Kind: ChildStarted, Target: p, Child: c.Target, At: c.At}}
		}

	case ChildStopped:
		// A newly authorized sibling may already own the slot.
		if n.State.ChildRunning != c.Child {
			return nil
		}
		n.State.ChildRunning = ChildNone
		f.markDirty(c.Target)
		if !n.State.Running() {
			return nil
		}
		n.State.Elapsed += c.At.Sub(n.State.Started)
		n.State.Started = time.Time{}
		f.markDirty(c.Target)
		if p, ok := f.parents[c.Target]; ok {
			return []Command{{Kind: ChildStopped, Target: p, Child: c.Target, At: c.At}}
		}
	}
	return nil
}

// drain applies queued cascade commands until none remain.
func (f *Forest) drain(queue []Command) {
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		queue = append(queue, f.apply(c)...)
	}
}

// PlanFrom captures the configuration of id's subtree as a plan.
func (f *Forest) PlanFrom(id string) (Plan, bool) {
	seen := make(map[string]struct{})
	return f.planFrom(id, seen)
}

func (f *Forest) planFrom(id string, seen map[string]struct{}) (Plan, bool) {
	if _, dup := seen[id]; dup {
		return Plan{}, false
	}
	seen[id] = struct{}{}
	n := f.Nodes[id]
	if n == nil {
		return Plan{}, false
	}
	p := Plan{Name: n.Timer.Name, Total: n.Timer.Total}
	for _, c := range n.Timer.Children {
		if cp, ok := f.planFrom(c, seen); ok {
			p.Children = append(p.Children, cp)
		}
	}
	return p, true
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
