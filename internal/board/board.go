// Package board is the store around the task lifecycle engine. It loads task
// files, calls the recurrence, dependency, and access packages, and commits
// their results back to disk.
package board

import (
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/depgraph"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter    FilterOptions
	SortBy    string
	Reverse   bool
	Limit     int
	Unblocked bool // only tasks whose blockers are all resolved
	Waiting   bool // only tasks with at least one unresolved blocker
}

// List loads all tasks, applies filters and sorting.
// Uses lenient parsing: malformed task files are skipped and returned as warnings.
func List(cfg *config.Config, opts ListOptions) ([]*task.Task, []task.ReadWarning, error) {
	allTasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return nil, nil, err
	}

	tasks := Filter(allTasks, opts.Filter)

	if opts.Unblocked || opts.Waiting {
		// The graph is built from every task so resolved blockers outside
		// the filter are still found.
		g := depgraph.New(allTasks)
		tasks = filterByBlocked(tasks, g, opts.Waiting)
	}

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "id"
	}
	Sort(tasks, sortField, opts.Reverse, cfg)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}

	return tasks, warnings, nil
}

func filterByBlocked(tasks []*task.Task, g *depgraph.Graph, blocked bool) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if g.IsBlocked(t.ID) == blocked {
			result = append(result, t)
		}
	}
	return result
}

// StatusSummary holds metrics for a single status column.
type StatusSummary struct {
	Status    task.Status `json:"status"`
	Count     int         `json:"count"`
	WIPLimit  int         `json:"wip_limit,omitempty"`
	Waiting   int         `json:"waiting"`
	Overdue   int         `json:"overdue"`
	Recurring int         `json:"recurring"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName  string          `json:"board_name"`
	TotalTasks int             `json:"total_tasks"`
	Statuses   []StatusSummary `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
}

// Summary computes a board summary from all tasks.
func Summary(cfg *config.Config, tasks []*task.Task, now time.Time) Overview {
	g := depgraph.New(tasks)
	statusMap := make(map[task.Status]*StatusSummary, len(task.Statuses))
	for _, s := range task.Statuses {
		statusMap[s] = &StatusSummary{
			Status:   s,
			WIPLimit: cfg.WIPLimit(s),
		}
	}

	prioMap := make(map[string]int, len(cfg.Priorities))

	for _, t := range tasks {
		if ss, ok := statusMap[t.Status]; ok {
			ss.Count++
			if g.IsBlocked(t.ID) {
				ss.Waiting++
			}
			if t.Overdue(now) {
				ss.Overdue++
			}
			if t.Recurring() {
				ss.Recurring++
			}
		}
		prioMap[t.Priority]++
	}

	statuses := make([]StatusSummary, 0, len(task.Statuses))
	for _, s := range task.Statuses {
		statuses = append(statuses, *statusMap[s])
	}

	priorities := make([]PriorityCount, 0, len(cfg.Priorities))
	for _, p := range cfg.Priorities {
		priorities = append(priorities, PriorityCount{Priority: p, Count: prioMap[p]})
	}

	return Overview{
		BoardName:  cfg.Board.Name,
		TotalTasks: len(tasks),
		Statuses:   statuses,
		Priorities: priorities,
	}
}

// ParseIDs splits a comma-separated ID string into deduplicated int IDs.
func ParseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "#"))
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id < 1 {
			return nil, task.ValidateTaskID(p)
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}

// CheckWIPLimit verifies that moving a task into target would not exceed the
// WIP limit. current is the task's present status (empty for new tasks).
func CheckWIPLimit(cfg *config.Config, statusCounts map[task.Status]int, target, current task.Status) error {
	limit := cfg.WIPLimit(target)
	if limit == 0 {
		return nil
	}

	// A task already in the target status doesn't add to the count.
	if current == target {
		return nil
	}

	count := statusCounts[target]
	if count >= limit {
		return task.ValidateWIPLimit(target, limit, count)
	}
	return nil
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []*task.Task) map[task.Status]int {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
