package board

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/depgraph"
	"github.com/twiced-technology-gmbh/taskflow/internal/filelock"
	"github.com/twiced-technology-gmbh/taskflow/internal/recurrence"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const lockFileName = ".lock"

// withLock runs fn under the board's exclusive lock. Every mutation goes
// through here so read-compute-write cycles never interleave.
// Mutations that take an actor authorize it inside fn, against the task as
// loaded under the lock.
func withLock(cfg *config.Config, fn func() error) error {
	return filelock.Do(filepath.Join(cfg.Dir(), lockFileName), fn)
}

// loadGraph reads every task strictly. A malformed file aborts the mutation
// because skipping it could hide an edge from the cycle check.
func loadGraph(cfg *config.Config) ([]*task.Task, *depgraph.Graph, error) {
	tasks, err := task.ReadAll(cfg.TasksPath())
	if err != nil {
		return nil, nil, err
	}
	return tasks, depgraph.New(tasks), nil
}

func lookup(g *depgraph.Graph, id int) (*task.Task, error) {
	t, ok := g.Task(id)
	if !ok {
		return nil, clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
			WithDetails(map[string]any{"id": id})
	}
	return t, nil
}

// allocateID reserves the next task id. The config is reloaded from disk so
// an id handed out by another process since cfg was loaded is not reused.
func allocateID(cfg *config.Config) (int, error) {
	fresh, err := config.Load(cfg.Dir())
	if err != nil {
		return 0, err
	}
	id := fresh.NextID
	fresh.NextID++
	if err := fresh.Save(); err != nil {
		return 0, fmt.Errorf("saving config: %w", err)
	}
	cfg.NextID = fresh.NextID
	return id, nil
}

// writeNew assigns an id to t and writes its file.
func writeNew(cfg *config.Config, t *task.Task, now time.Time) error {
	id, err := allocateID(cfg)
	if err != nil {
		return err
	}
	t.ID = id
	t.Created = now
	t.Updated = now
	t.File = filepath.Join(cfg.TasksPath(), task.GenerateFilename(id, task.GenerateSlug(t.Title)))
	if err := task.Write(t.File, t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}
	return nil
}

// writeExisting writes t back, renaming its file when the title changed.
func writeExisting(t *task.Task) error {
	oldPath := t.File
	newPath := filepath.Join(filepath.Dir(oldPath), task.GenerateFilename(t.ID, task.GenerateSlug(t.Title)))
	if err := task.Write(newPath, t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}
	if newPath != oldPath {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing old file: %w", err)
		}
		t.File = newPath
	}
	return nil
}

// Get reads a single task by id.
func Get(cfg *config.Config, id int) (*task.Task, error) {
	path, err := task.FindByID(cfg.TasksPath(), id)
	if err != nil {
		return nil, err
	}
	return task.Read(path)
}

// Create persists a new task. Its BlockedBy ids must exist; they are added
// through the dependency graph after the id is assigned.
func Create(cfg *config.Config, t *task.Task, now time.Time) error {
	if err := task.ValidateRule(t.Recurrence); err != nil {
		return err
	}
	return withLock(cfg, func() error {
		tasks, g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		for _, b := range t.BlockedBy {
			if _, ok := g.Task(b); !ok {
				return task.ValidateDependencyNotFound(b)
			}
		}
		if err := CheckWIPLimit(cfg, CountByStatus(tasks), t.Status, ""); err != nil {
			return err
		}
		if t.Status == task.StatusCompleted && t.CompletedAt == nil {
			t.CompletedAt = &now
		}

		blockers := t.BlockedBy
		t.BlockedBy = nil
		if err := writeNew(cfg, t, now); err != nil {
			return err
		}
		if len(blockers) > 0 {
			g = depgraph.New(append(tasks, t))
			for _, b := range blockers {
				g.AddBlocker(t.ID, b)
			}
			if err := task.Write(t.File, t); err != nil {
				return fmt.Errorf("writing task: %w", err)
			}
		}
		LogMutation(cfg.Dir(), ActionCreate, t.ID, t.Title)
		return nil
	})
}

// Update applies fn to task id under the board lock and writes the result.
// fn receives the graph built from every task so it can add or remove
// blocker edges. Returning an error from fn leaves the file untouched.
func Update(cfg *config.Config, id int, now time.Time, fn func(t *task.Task, g *depgraph.Graph) error) (*task.Task, error) {
	var out *task.Task
	err := withLock(cfg, func() error {
		_, g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		t, err := lookup(g, id)
		if err != nil {
			return err
		}
		edges := g.Version()
		if err := fn(t, g); err != nil {
			return err
		}
		if err := task.ValidateRule(t.Recurrence); err != nil {
			return err
		}
		t.Updated = now
		if err := writeExisting(t); err != nil {
			return err
		}
		detail := t.Title
		if g.Version() != edges {
			detail += " (blockers changed)"
		}
		LogMutation(cfg.Dir(), ActionEdit, t.ID, detail)
		out = t
		return nil
	})
	return out, err
}

// MoveResult reports a status change.
type MoveResult struct {
	Task    *task.Task  `json:"task"`
	From    task.Status `json:"from"`
	Changed bool        `json:"changed"`
}

// Move sets the status of task id, enforcing WIP limits. Moving into
// completed goes through Complete so recurring tasks regenerate.
func Move(cfg *config.Config, actor string, id int, status task.Status, now time.Time) (*MoveResult, error) {
	if status == task.StatusCompleted {
		res, err := Complete(cfg, actor, id, now)
		if err != nil {
			if clierr.CodeOf(err) == clierr.StatusConflict && res != nil {
				return &MoveResult{Task: res.Task, From: status}, nil
			}
			return nil, err
		}
		return &MoveResult{Task: res.Task, From: res.From, Changed: true}, nil
	}

	var out *MoveResult
	err := withLock(cfg, func() error {
		tasks, g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		t, err := lookup(g, id)
		if err != nil {
			return err
		}
		if err := AuthorizeTaskEdit(cfg, actor, t); err != nil {
			return err
		}
		from := t.Status
		out = &MoveResult{Task: t, From: from}
		if from == status {
			return nil
		}
		if err := CheckWIPLimit(cfg, CountByStatus(tasks), status, from); err != nil {
			return err
		}
		task.SetStatus(t, status, now)
		if err := task.Write(t.File, t); err != nil {
			return fmt.Errorf("writing task: %w", err)
		}
		out.Changed = true
		LogMutation(cfg.Dir(), ActionMove, t.ID, string(from)+" -> "+string(status))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteResult is the outcome of completing a task.
type CompleteResult struct {
	Task *task.Task  `json:"task"`
	From task.Status `json:"from"`
	// Next is the regenerated occurrence, nil when the task does not recur
	// or its rule has ended.
	Next *task.Task `json:"next,omitempty"`
}

// Complete marks task id completed at at and, when it recurs, writes its
// successor with a freshly allocated id. The successor is written first and
// removed again if the original cannot be saved, so a failure never leaves a
// completed task without its next occurrence. Completing a completed task
// returns a STATUS_CONFLICT error along with the unchanged task.
func Complete(cfg *config.Config, actor string, id int, at time.Time) (*CompleteResult, error) {
	var out *CompleteResult
	err := withLock(cfg, func() error {
		_, g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		t, err := lookup(g, id)
		if err != nil {
			return err
		}
		if err := AuthorizeTaskEdit(cfg, actor, t); err != nil {
			return err
		}
		out = &CompleteResult{Task: t, From: t.Status}
		if t.Status == task.StatusCompleted {
			return clierr.Newf(clierr.StatusConflict, "task #%d is already completed", id).
				WithDetails(map[string]any{"id": id})
		}

		completed := *t
		task.SetStatus(&completed, task.StatusCompleted, at)

		next := recurrence.Regenerate(&completed, at)
		if next != nil {
			if err := writeNew(cfg, next, at); err != nil {
				return fmt.Errorf("regenerating #%d: %w", id, err)
			}
		}
		if err := task.Write(completed.File, &completed); err != nil {
			if next != nil {
				_ = os.Remove(next.File)
			}
			return fmt.Errorf("writing task: %w", err)
		}

		*t = completed
		LogMutation(cfg.Dir(), ActionComplete, t.ID, t.Title)
		if next != nil {
			out.Next = next
			LogMutation(cfg.Dir(), ActionRegenerate, next.ID, "from #"+strconv.Itoa(id))
		}
		return nil
	})
	return out, err
}

// Block records that id is blocked by blocker. A refused edge leaves every
// task file untouched.
func Block(cfg *config.Config, actor string, id, blocker int) (depgraph.Result, error) {
	return mutateEdge(cfg, actor, id, blocker, true)
}

// Unblock removes blocker from id's blockers. Removing an absent edge is a
// successful no-op.
func Unblock(cfg *config.Config, actor string, id, blocker int) (depgraph.Result, error) {
	return mutateEdge(cfg, actor, id, blocker, false)
}

func mutateEdge(cfg *config.Config, actor string, id, blocker int, add bool) (depgraph.Result, error) {
	var res depgraph.Result
	err := withLock(cfg, func() error {
		_, g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		if t, ok := g.Task(id); ok {
			if err := AuthorizeTaskEdit(cfg, actor, t); err != nil {
				return err
			}
		}
		action := ActionUnblock
		if add {
			action = ActionBlock
			res = g.AddBlocker(id, blocker)
		} else {
			res = g.RemoveBlocker(id, blocker)
		}

		if err := EdgeError(g, id, blocker, res); err != nil {
			return err
		}
		if !res.Changed {
			return nil
		}

		t, _ := g.Task(id)
		t.Updated = time.Now()
		if err := task.Write(t.File, t); err != nil {
			return fmt.Errorf("writing task: %w", err)
		}
		LogMutation(cfg.Dir(), action, id, "#"+strconv.Itoa(blocker))
		return nil
	})
	return res, err
}

// EdgeError maps a refused blocker edit on g to its CLI error. It returns
// nil for applied edits and no-ops.
func EdgeError(g *depgraph.Graph, id, blocker int, res depgraph.Result) error {
	switch {
	case res.Circular && id == blocker:
		return task.ValidateSelfReference(id)
	case res.Circular:
		return task.ValidateCircular(id, blocker)
	case res.Missing:
		if _, ok := g.Task(id); !ok {
			_, err := lookup(g, id)
			return err
		}
		return task.ValidateDependencyNotFound(blocker)
	}
	return nil
}

// Remove deletes task id and strips it from the blockers of every task that
// referenced it. It returns the rewritten dependents.
func Remove(cfg *config.Config, actor string, id int) ([]*task.Task, error) {
	var changed []*task.Task
	err := withLock(cfg, func() error {
		_, g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		t, err := lookup(g, id)
		if err != nil {
			return err
		}
		if err := AuthorizeTaskEdit(cfg, actor, t); err != nil {
			return err
		}
		now := time.Now()
		changed = g.Detach(id)
		for _, dep := range changed {
			dep.Updated = now
			if err := task.Write(dep.File, dep); err != nil {
				return fmt.Errorf("writing task: %w", err)
			}
		}
		if err := os.Remove(t.File); err != nil {
			return fmt.Errorf("deleting task file: %w", err)
		}
		LogMutation(cfg.Dir(), ActionDelete, id, t.Title)
		return nil
	})
	return changed, err
}

// Dependencies is the dependency view of one task.
type Dependencies struct {
	Task       *task.Task   `json:"task"`
	BlockedBy  []*task.Task `json:"blocked_by"`
	Missing    []int        `json:"missing,omitempty"`
	Blocking   []*task.Task `json:"blocking"`
	Unresolved []int        `json:"unresolved"`
	Blocked    bool         `json:"blocked"`
	Cycle      []int        `json:"cycle,omitempty"`
}

// Deps reports the blockers and dependents of task id. It reads without the
// lock; malformed files are skipped.
func Deps(cfg *config.Config, id int) (*Dependencies, error) {
	tasks, _, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return nil, err
	}
	g := depgraph.New(tasks)
	t, err := lookup(g, id)
	if err != nil {
		return nil, err
	}
	d := &Dependencies{
		Task:       t,
		BlockedBy:  []*task.Task{},
		Blocking:   g.BlockingTasks(id),
		Unresolved: g.Unresolved(id),
		Blocked:    g.IsBlocked(id),
	}
	for _, b := range g.BlockedBy(id) {
		if bt, ok := g.Task(b); ok {
			d.BlockedBy = append(d.BlockedBy, bt)
		} else {
			d.Missing = append(d.Missing, b)
		}
	}
	if d.Blocking == nil {
		d.Blocking = []*task.Task{}
	}
	if d.Unresolved == nil {
		d.Unresolved = []int{}
	}
	var ge *depgraph.GraphError
	if err := g.Validate(); errors.As(err, &ge) {
		d.Cycle = ge.Cycle
	}
	return d, nil
}
