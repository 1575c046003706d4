package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// AgendaTable renders overdue tasks and the upcoming days.
func AgendaTable(w io.Writer, a board.Agenda) {
	if a.Len() == 0 {
		fmt.Fprintln(w, dimStyle.Render("Nothing due."))
		return
	}
	if len(a.Overdue) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Overdue (%d)", len(a.Overdue))))
		agendaRows(w, a.Overdue, true)
		fmt.Fprintln(w)
	}
	today := date.New(a.Generated.Year(), a.Generated.Month(), a.Generated.Day())
	for i, day := range a.Days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading := day.Date.Format("Mon 2006-01-02")
		if day.Date.Equal(today.Time) {
			heading += " (today)"
		}
		fmt.Fprintln(w, titleStyle.Render(heading))
		agendaRows(w, day.Tasks, false)
	}
}

func agendaRows(w io.Writer, tasks []*task.Task, withDate bool) {
	for _, t := range tasks {
		when := ""
		switch {
		case withDate:
			when = date.Format(*t.DueDate) + " "
		case t.DueDate.Hour() != 0 || t.DueDate.Minute() != 0:
			when = t.DueDate.Format("15:04") + " "
		}
		fmt.Fprintf(w, "  %s#%-4d %s %s\n", dimStyle.Render(when), t.ID, padRight(styledPriority(t.Priority), 7), t.Title) //nolint:mnd // priority column
	}
}

// AgendaCompact renders the agenda one task per line, prefixed by its day.
func AgendaCompact(w io.Writer, a board.Agenda) {
	for _, t := range a.Overdue {
		fmt.Fprintln(w, "overdue "+formatTaskLine(t))
	}
	for _, day := range a.Days {
		for _, t := range day.Tasks {
			fmt.Fprintln(w, day.Date.String()+" "+formatTaskLine(t))
		}
	}
}

// AgendaSummary is the single-line digest printed by the daily schedule.
func AgendaSummary(a board.Agenda) string {
	parts := []string{fmt.Sprintf("%d overdue", len(a.Overdue))}
	for _, day := range a.Days {
		parts = append(parts, fmt.Sprintf("%s: %d", day.Date.Format("Mon 01-02"), len(day.Tasks)))
	}
	return "Agenda " + a.Generated.Format("2006-01-02 15:04") + " - " + strings.Join(parts, ", ")
}
