package board

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func TestBuildAgenda(t *testing.T) {
	now := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	at := func(day, hour int) *time.Time {
		v := time.Date(2025, time.May, day, hour, 0, 0, 0, time.UTC)
		return &v
	}

	tasks := []*task.Task{
		{ID: 1, Status: task.StatusToDo, DueDate: at(8, 0)},
		{ID: 2, Status: task.StatusToDo, DueDate: at(10, 0)}, // today, earlier than now
		{ID: 3, Status: task.StatusInProgress, DueDate: at(12, 9)},
		{ID: 4, Status: task.StatusCompleted, DueDate: at(9, 0)},
		{ID: 5, Status: task.StatusToDo, DueDate: at(20, 0)}, // beyond lookahead
		{ID: 6, Status: task.StatusToDo},
		{ID: 7, Status: task.StatusToDo, DueDate: at(12, 7)},
	}

	a := BuildAgenda(tasks, now, 3)

	if len(a.Overdue) != 1 || a.Overdue[0].ID != 1 {
		t.Fatalf("overdue = %v, want [1]", ids(a.Overdue))
	}
	if len(a.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(a.Days))
	}
	if got := a.Days[0].Date.String(); got != "2025-05-10" {
		t.Errorf("first day = %s, want 2025-05-10", got)
	}
	if got := ids(a.Days[1].Tasks); len(got) != 2 || got[0] != 7 || got[1] != 3 {
		t.Errorf("2025-05-12 tasks = %v, want [7 3]", got)
	}
	if a.Len() != 4 {
		t.Errorf("Len = %d, want 4", a.Len())
	}
}
