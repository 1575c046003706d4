package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/recurrence"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	if t.StartDate != nil {
		ts += " start:" + date.Format(*t.StartDate)
	}
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	var people []string
	if t.ProjectID != "" {
		people = append(people, "project:"+t.ProjectID)
	}
	if t.UserID != "" {
		people = append(people, "owner:"+t.UserID)
	}
	if t.AssigneeID != "" {
		people = append(people, "assignee:"+t.AssigneeID)
	}
	if len(people) > 0 {
		fmt.Fprintln(w, "  "+strings.Join(people, " "))
	}

	if t.Description != "" {
		for _, line := range strings.Split(strings.TrimRight(t.Description, "\n"), "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.BoardName, s.TotalTasks)

	for _, ss := range s.Statuses {
		line := "  " + string(ss.Status) + ": " + strconv.Itoa(ss.Count)
		if ss.WIPLimit > 0 {
			line += "/" + strconv.Itoa(ss.WIPLimit)
		}
		var notes []string
		if ss.Waiting > 0 {
			notes = append(notes, strconv.Itoa(ss.Waiting)+" waiting")
		}
		if ss.Overdue > 0 {
			notes = append(notes, strconv.Itoa(ss.Overdue)+" overdue")
		}
		if ss.Recurring > 0 {
			notes = append(notes, strconv.Itoa(ss.Recurring)+" recurring")
		}
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// DepsCompact renders the dependency view on two lines.
func DepsCompact(w io.Writer, d *board.Dependencies) {
	fmt.Fprintln(w, formatTaskLine(d.Task))
	blockers := make([]int, 0, len(d.BlockedBy)+len(d.Missing))
	for _, t := range d.BlockedBy {
		blockers = append(blockers, t.ID)
	}
	blockers = append(blockers, d.Missing...)
	blocking := make([]int, 0, len(d.Blocking))
	for _, t := range d.Blocking {
		blocking = append(blocking, t.ID)
	}
	fmt.Fprintf(w, "  blocked_by:[%s] unresolved:[%s] blocking:[%s]\n",
		idRefs(blockers), idRefs(d.Unresolved), idRefs(blocking))
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + string(t.Status) + "/" + t.Priority + "] " + t.Title

	if t.AssigneeID != "" {
		line += " @" + t.AssigneeID
	}
	if len(t.Labels) > 0 {
		line += " (" + strings.Join(t.Labels, ", ") + ")"
	}
	if t.DueDate != nil {
		line += " due:" + date.Format(*t.DueDate)
	}
	if t.Recurring() {
		line += " repeats:" + recurrence.Describe(*t.Recurrence)
	}
	if len(t.BlockedBy) > 0 {
		line += " after:" + idRefs(t.BlockedBy)
	}
	return line
}
