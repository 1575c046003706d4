package board

import (
	"slices"
	"sort"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Sort sorts tasks by the given field. Status and priority use board order,
// not alphabetical order.
func Sort(tasks []*task.Task, field string, reverse bool, cfg *config.Config) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field, cfg)
		if reverse {
			return !less
		}
		return less
	})
}

// ValidSortFields returns the accepted --sort values.
func ValidSortFields() []string {
	return []string{"id", fieldStatus, fieldPriority, "created", "updated", "due", "start"}
}

func statusIndex(s task.Status) int {
	return slices.Index(task.Statuses, s)
}

func compareTasks(a, b *task.Task, field string, cfg *config.Config) bool {
	switch field {
	case fieldStatus:
		return statusIndex(a.Status) < statusIndex(b.Status)
	case fieldPriority:
		return cfg.PriorityIndex(a.Priority) < cfg.PriorityIndex(b.Priority)
	case "created":
		return a.Created.Before(b.Created)
	case "updated":
		return a.Updated.Before(b.Updated)
	case "due":
		return compareTime(a.DueDate, b.DueDate)
	case "start":
		return compareTime(a.StartDate, b.StartDate)
	default:
		return a.ID < b.ID
	}
}

// compareTime orders unset times last.
func compareTime(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
