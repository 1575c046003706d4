package board

import (
	"sort"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// AgendaDay lists the unresolved tasks due on one day.
type AgendaDay struct {
	Date  date.Date    `json:"date"`
	Tasks []*task.Task `json:"tasks"`
}

// Agenda is what is overdue and what comes due over the next days.
type Agenda struct {
	Generated time.Time    `json:"generated"`
	Overdue   []*task.Task `json:"overdue"`
	Days      []AgendaDay  `json:"days"`
}

// Len returns the number of tasks on the agenda.
func (a Agenda) Len() int {
	n := len(a.Overdue)
	for _, d := range a.Days {
		n += len(d.Tasks)
	}
	return n
}

// BuildAgenda buckets unresolved tasks by due day. Tasks due before today
// are overdue; tasks due today through lookahead days from now get a day
// entry. Days without tasks are omitted.
func BuildAgenda(tasks []*task.Task, now time.Time, lookahead int) Agenda {
	a := Agenda{Generated: now, Overdue: []*task.Task{}, Days: []AgendaDay{}}
	byDay := map[int][]*task.Task{}
	for _, t := range tasks {
		if t.DueDate == nil || t.Status.Resolved() {
			continue
		}
		due := t.DueDate.In(now.Location())
		switch offset := date.DaysBetween(now, due); {
		case offset < 0:
			a.Overdue = append(a.Overdue, t)
		case offset <= lookahead:
			byDay[offset] = append(byDay[offset], t)
		}
	}

	byDue := func(list []*task.Task) {
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].DueDate.Equal(*list[j].DueDate) {
				return list[i].DueDate.Before(*list[j].DueDate)
			}
			return list[i].ID < list[j].ID
		})
	}
	byDue(a.Overdue)

	for offset := 0; offset <= lookahead; offset++ {
		list, ok := byDay[offset]
		if !ok {
			continue
		}
		byDue(list)
		day := date.AddDays(now, offset)
		a.Days = append(a.Days, AgendaDay{
			Date:  date.New(day.Year(), day.Month(), day.Day()),
			Tasks: list,
		})
	}
	return a
}

// LoadAgenda reads the board and builds its agenda using the configured
// lookahead and timezone.
func LoadAgenda(cfg *config.Config, now time.Time) (Agenda, []task.ReadWarning, error) {
	tasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return Agenda{}, nil, err
	}
	return BuildAgenda(tasks, now.In(cfg.Location()), cfg.Agenda.Lookahead), warnings, nil
}
