package board

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses        []task.Status
	ExcludeStatuses []task.Status
	Priorities      []string
	Project         string
	Label           string
	Assignee        string
	Owner           string
	Search          string    // case-insensitive match across title, description, and labels
	Recurring       *bool     // nil=no filter
	OverdueAt       time.Time // non-zero: only tasks overdue at this instant
	ParentID        *int      // only tasks regenerated from this chain root
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if !matchesStatus(t.Status, opts.Statuses, opts.ExcludeStatuses) {
		return false
	}
	if len(opts.Priorities) > 0 && !containsStr(opts.Priorities, t.Priority) {
		return false
	}
	if opts.Project != "" && t.ProjectID != opts.Project {
		return false
	}
	if opts.Label != "" && !t.Labels.Contains(opts.Label) {
		return false
	}
	if opts.Assignee != "" && t.AssigneeID != opts.Assignee {
		return false
	}
	if opts.Owner != "" && t.UserID != opts.Owner {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	if opts.Recurring != nil && t.Recurring() != *opts.Recurring {
		return false
	}
	if !opts.OverdueAt.IsZero() && !t.Overdue(opts.OverdueAt) {
		return false
	}
	if opts.ParentID != nil && !inChain(t, *opts.ParentID) {
		return false
	}
	return true
}

// inChain reports whether t is the chain root or one of its regenerated descendants.
func inChain(t *task.Task, root int) bool {
	if t.ID == root {
		return true
	}
	return t.Recurrence != nil && t.Recurrence.ParentTaskID != nil && *t.Recurrence.ParentTaskID == root
}

func matchesStatus(status task.Status, include, exclude []task.Status) bool {
	if len(include) > 0 && !containsStatus(include, status) {
		return false
	}
	if len(exclude) > 0 && containsStatus(exclude, status) {
		return false
	}
	return true
}

func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, label := range t.Labels {
		if strings.Contains(strings.ToLower(label), q) {
			return true
		}
	}
	return false
}

func containsStatus(slice []task.Status, item task.Status) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
