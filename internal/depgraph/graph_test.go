package depgraph

import (
	"errors"
	"slices"
	"testing"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// chain builds A(1) blocked by B(2) blocked by C(3).
func chain() (*Graph, []*task.Task) {
	tasks := []*task.Task{
		{ID: 1, Title: "A", Status: task.StatusToDo, BlockedBy: task.NewSet(2)},
		{ID: 2, Title: "B", Status: task.StatusToDo, BlockedBy: task.NewSet(3)},
		{ID: 3, Title: "C", Status: task.StatusToDo},
	}
	return New(tasks), tasks
}

func TestSelfEdgeIsCircular(t *testing.T) {
	g, _ := chain()
	for _, id := range []int{1, 2, 3, 99} {
		if !g.HasCircularDependency(id, id) {
			t.Errorf("HasCircularDependency(%d, %d) = false", id, id)
		}
	}
}

func TestClosingTheChainIsRefused(t *testing.T) {
	g, tasks := chain()

	if !g.HasCircularDependency(3, 1) {
		t.Fatal("C blocked by A should close the loop A -> B -> C -> A")
	}
	if g.HasCircularDependency(1, 3) {
		t.Error("A blocked by C only adds a shortcut, not a cycle")
	}

	before := g.Version()
	res := g.AddBlocker(3, 1)
	if res.Success || !res.Circular {
		t.Fatalf("AddBlocker(C, A) = %+v, want circular refusal", res)
	}
	if len(tasks[2].BlockedBy) != 0 || len(g.BlockedBy(3)) != 0 {
		t.Errorf("refused edge mutated C: %v", tasks[2].BlockedBy)
	}
	if g.Version() != before {
		t.Error("refused edge bumped the version")
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	g, tasks := chain()
	orig := tasks[0].BlockedBy.Clone()

	res := g.AddBlocker(1, 3)
	if !res.Success || !res.Changed {
		t.Fatalf("AddBlocker(1, 3) = %+v", res)
	}
	if !slices.Equal(g.BlockedBy(1), []int{2, 3}) {
		t.Errorf("BlockedBy(1) = %v", g.BlockedBy(1))
	}
	if res := g.AddBlocker(1, 3); !res.Success || res.Changed {
		t.Errorf("repeat AddBlocker = %+v, want no-op success", res)
	}

	if res := g.RemoveBlocker(1, 3); !res.Success || !res.Changed {
		t.Fatalf("RemoveBlocker(1, 3) = %+v", res)
	}
	if !slices.Equal(tasks[0].BlockedBy, orig) {
		t.Errorf("BlockedBy after round trip = %v, want %v", tasks[0].BlockedBy, orig)
	}
	if res := g.RemoveBlocker(1, 3); !res.Success || res.Changed {
		t.Errorf("removing a missing edge = %+v, want no-op success", res)
	}
}

func TestAddBlockerMissingTask(t *testing.T) {
	g, _ := chain()
	if res := g.AddBlocker(1, 42); res.Success || !res.Missing {
		t.Errorf("AddBlocker(1, 42) = %+v", res)
	}
	if res := g.AddBlocker(42, 1); res.Success || !res.Missing {
		t.Errorf("AddBlocker(42, 1) = %+v", res)
	}
}

func TestReverseLookup(t *testing.T) {
	g, _ := chain()
	g.AddBlocker(1, 3)

	var ids []int
	for _, tk := range g.BlockingTasks(3) {
		ids = append(ids, tk.ID)
	}
	if !slices.Equal(ids, []int{1, 2}) {
		t.Errorf("BlockingTasks(3) = %v, want [1 2]", ids)
	}
	if len(g.BlockingTasks(1)) != 0 {
		t.Error("nothing is blocked by A")
	}
}

func TestUnresolved(t *testing.T) {
	tasks := []*task.Task{
		{ID: 1, Status: task.StatusToDo, BlockedBy: task.NewSet(2, 3, 4)},
		{ID: 2, Status: task.StatusCompleted},
		{ID: 3, Status: task.StatusInProgress},
	}
	g := New(tasks)
	if got := g.Unresolved(1); !slices.Equal(got, []int{3}) {
		t.Errorf("Unresolved(1) = %v, want [3]", got)
	}
	tasks[2].Status = task.StatusCancelled
	if g.IsBlocked(1) {
		t.Error("task with only resolved or missing blockers reported blocked")
	}
}

func TestDetach(t *testing.T) {
	g, tasks := chain()
	changed := g.Detach(2)
	if len(changed) != 1 || changed[0].ID != 1 {
		t.Fatalf("Detach(2) changed %v", changed)
	}
	if len(tasks[0].BlockedBy) != 0 {
		t.Errorf("A still blocked by %v", tasks[0].BlockedBy)
	}
	if len(g.BlockingTasks(3)) != 0 {
		t.Error("reverse edge from C survived detach")
	}
	if _, ok := g.Task(2); ok {
		t.Error("detached task still indexed")
	}
}

func TestValidate(t *testing.T) {
	g, _ := chain()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate on acyclic graph: %v", err)
	}

	cyclic := New([]*task.Task{
		{ID: 1, BlockedBy: task.NewSet(2)},
		{ID: 2, BlockedBy: task.NewSet(3)},
		{ID: 3, BlockedBy: task.NewSet(1)},
	})
	err := cyclic.Validate()
	if !errors.Is(err, ErrCycleFound) {
		t.Fatalf("Validate = %v, want ErrCycleFound", err)
	}
	var ge *GraphError
	if !errors.As(err, &ge) || !slices.Equal(ge.Cycle, []int{1, 2, 3, 1}) {
		t.Errorf("cycle witness = %v", ge)
	}
	if err.Error() != "dependency cycle detected: #1 -> #2 -> #3 -> #1" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestTraversalTerminatesOnExistingCycle(t *testing.T) {
	g := New([]*task.Task{
		{ID: 1, BlockedBy: task.NewSet(2)},
		{ID: 2, BlockedBy: task.NewSet(1)},
		{ID: 3},
	})
	if g.HasCircularDependency(3, 1) {
		t.Error("3 is not reachable from the 1 <-> 2 loop")
	}
}
