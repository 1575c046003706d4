package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const (
	fieldPriority = "priority"
	fieldStatus   = "status"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string          `json:"key"`
	Statuses []StatusSummary `json:"statuses"`
	Total    int             `json:"total"`
}

// GroupBy groups tasks by the specified field and returns summaries per group.
// A task with several labels is counted once under each.
func GroupBy(tasks []*task.Task, field string, cfg *config.Config) GroupedSummary {
	groups := make(map[string][]*task.Task)
	for _, t := range tasks {
		for _, key := range extractGroupKeys(t, field) {
			groups[key] = append(groups[key], t)
		}
	}

	result := GroupedSummary{Groups: make([]GroupSummary, 0, len(groups))}
	for _, key := range sortGroupKeys(groups, field, cfg) {
		groupTasks := groups[key]
		result.Groups = append(result.Groups, GroupSummary{
			Key:      key,
			Statuses: groupStatusSummary(groupTasks, cfg),
			Total:    len(groupTasks),
		})
	}
	return result
}

func orNone(v, none string) []string {
	if v == "" {
		return []string{none}
	}
	return []string{v}
}

func extractGroupKeys(t *task.Task, field string) []string {
	switch field {
	case "project":
		return orNone(t.ProjectID, "(no project)")
	case "assignee":
		return orNone(t.AssigneeID, "(unassigned)")
	case "owner":
		return orNone(t.UserID, "(no owner)")
	case "label":
		if len(t.Labels) == 0 {
			return []string{"(unlabeled)"}
		}
		return t.Labels
	case fieldPriority:
		return []string{t.Priority}
	case fieldStatus:
		return []string{string(t.Status)}
	default:
		return []string{"(all)"}
	}
}

func sortGroupKeys(groups map[string][]*task.Task, field string, cfg *config.Config) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case fieldStatus:
		sort.SliceStable(keys, func(i, j int) bool {
			return statusIndex(task.Status(keys[i])) < statusIndex(task.Status(keys[j]))
		})
	case fieldPriority:
		sort.SliceStable(keys, func(i, j int) bool {
			return cfg.PriorityIndex(keys[i]) < cfg.PriorityIndex(keys[j])
		})
	default:
		sort.Strings(keys)
	}
	return keys
}

func groupStatusSummary(tasks []*task.Task, cfg *config.Config) []StatusSummary {
	counts := CountByStatus(tasks)
	statuses := make([]StatusSummary, 0, len(task.Statuses))
	for _, s := range task.Statuses {
		statuses = append(statuses, StatusSummary{
			Status:   s,
			Count:    counts[s],
			WIPLimit: cfg.WIPLimit(s),
		})
	}
	return statuses
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{"project", "label", "assignee", "owner", fieldPriority, fieldStatus}
}
