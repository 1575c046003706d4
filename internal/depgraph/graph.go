// Package depgraph maintains the blocked-by relation between tasks as an
// adjacency index and refuses edges that would close a cycle.
//
// An edge task -> blocker means the task stays blocked until the blocker is
// resolved. Edges are added only through AddBlocker, which checks for cycles
// first, so a graph built from acyclic data stays acyclic.
package depgraph

import (
	"slices"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

type idSet map[int]struct{}

func (s idSet) sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Graph indexes blocker edges in both directions. It is not safe for
// concurrent use; the board store holds its lock around every use.
type Graph struct {
	tasks   map[int]*task.Task
	forward map[int]idSet // task -> its blockers
	reverse map[int]idSet // blocker -> tasks it blocks
	version uint64
}

// Result describes the outcome of an edge mutation.
type Result struct {
	Success  bool `json:"success"`
	Circular bool `json:"circular"`
	Missing  bool `json:"missing,omitempty"`
	Changed  bool `json:"changed"`
}

// New indexes the BlockedBy sets of tasks. Edges pointing at ids outside the
// slice are kept; they count as resolved blockers.
func New(tasks []*task.Task) *Graph {
	g := &Graph{
		tasks:   make(map[int]*task.Task, len(tasks)),
		forward: make(map[int]idSet, len(tasks)),
		reverse: make(map[int]idSet),
	}
	for _, t := range tasks {
		g.tasks[t.ID] = t
	}
	for _, t := range tasks {
		for _, blocker := range t.BlockedBy {
			g.link(t.ID, blocker)
		}
	}
	return g
}

func (g *Graph) link(id, blocker int) {
	if g.forward[id] == nil {
		g.forward[id] = idSet{}
	}
	g.forward[id][blocker] = struct{}{}
	if g.reverse[blocker] == nil {
		g.reverse[blocker] = idSet{}
	}
	g.reverse[blocker][id] = struct{}{}
}

func (g *Graph) unlink(id, blocker int) {
	delete(g.forward[id], blocker)
	delete(g.reverse[blocker], id)
}

// Task returns the indexed task with the given id.
func (g *Graph) Task(id int) (*task.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Version increases with every committed edge change.
func (g *Graph) Version() uint64 { return g.version }

// BlockedBy returns the direct blockers of id in ascending order.
func (g *Graph) BlockedBy(id int) []int {
	return g.forward[id].sorted()
}

// BlockingTasks returns the tasks that list id as a blocker, ordered by ID.
func (g *Graph) BlockingTasks(id int) []*task.Task {
	var out []*task.Task
	for _, dependent := range g.reverse[id].sorted() {
		if t, ok := g.tasks[dependent]; ok {
			out = append(out, t)
		}
	}
	return out
}

// HasCircularDependency reports whether adding the edge taskID -> blockerID
// would close a cycle. A task can never block itself.
func (g *Graph) HasCircularDependency(taskID, blockerID int) bool {
	if taskID == blockerID {
		return true
	}
	visited := idSet{}
	stack := []int{blockerID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == taskID {
			return true
		}
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}
		for next := range g.forward[cur] {
			if _, seen := visited[next]; !seen {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// AddBlocker records that taskID is blocked by blockerID and appends the
// blocker to the task's BlockedBy set. A refused edge leaves the graph and
// the task untouched. Adding an existing edge succeeds without a change.
func (g *Graph) AddBlocker(taskID, blockerID int) Result {
	if g.HasCircularDependency(taskID, blockerID) {
		return Result{Circular: true}
	}
	t, ok := g.tasks[taskID]
	if _, blockerOK := g.tasks[blockerID]; !ok || !blockerOK {
		return Result{Missing: true}
	}
	if _, exists := g.forward[taskID][blockerID]; exists {
		return Result{Success: true}
	}
	g.link(taskID, blockerID)
	t.BlockedBy, _ = t.BlockedBy.Add(blockerID)
	g.version++
	return Result{Success: true, Changed: true}
}

// RemoveBlocker drops the edge taskID -> blockerID. Removing an edge that
// does not exist is a successful no-op.
func (g *Graph) RemoveBlocker(taskID, blockerID int) Result {
	t, ok := g.tasks[taskID]
	if !ok {
		return Result{Missing: true}
	}
	if _, exists := g.forward[taskID][blockerID]; !exists {
		return Result{Success: true}
	}
	g.unlink(taskID, blockerID)
	t.BlockedBy, _ = t.BlockedBy.Remove(blockerID)
	g.version++
	return Result{Success: true, Changed: true}
}

// Detach removes id from the graph along with every edge touching it and
// returns the tasks whose BlockedBy set was rewritten.
func (g *Graph) Detach(id int) []*task.Task {
	var changed []*task.Task
	for _, dependent := range g.reverse[id].sorted() {
		g.unlink(dependent, id)
		if t, ok := g.tasks[dependent]; ok {
			t.BlockedBy, _ = t.BlockedBy.Remove(id)
			changed = append(changed, t)
		}
	}
	for _, blocker := range g.forward[id].sorted() {
		g.unlink(id, blocker)
	}
	delete(g.forward, id)
	delete(g.reverse, id)
	delete(g.tasks, id)
	g.version++
	return changed
}

// Unresolved returns the blockers of id that are neither completed nor
// cancelled. Blockers missing from the graph count as resolved.
func (g *Graph) Unresolved(id int) []int {
	var out []int
	for _, blocker := range g.BlockedBy(id) {
		if t, ok := g.tasks[blocker]; ok && !t.Status.Resolved() {
			out = append(out, blocker)
		}
	}
	return out
}

// IsBlocked reports whether id has at least one unresolved blocker.
func (g *Graph) IsBlocked(id int) bool {
	return len(g.Unresolved(id)) > 0
}
