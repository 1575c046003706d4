package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/recurrence"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const (
	maxTitleWidth  = 48
	maxLabelsWidth = 30
	timeLayout     = "2006-01-02 15:04"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Shared with the TUI column headers.
	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusToDo:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusBlocked:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.StatusOnHold:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		task.StatusCancelled:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"urgent": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// StatusStyle returns the color used for status, or a plain style.
func StatusStyle(status task.Status) lipgloss.Style {
	if st, ok := statusStyles[status]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, prioW, titleW, labelsW, dueW := 4, 8, 10, 5, 8, 12
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title), maxTitleWidth)+pad)
		labelsW = max(labelsW, min(len(strings.Join(t.Labels, ",")), maxLabelsWidth)+pad)
		if t.DueDate != nil {
			dueW = max(dueW, len(date.Format(*t.DueDate))+pad)
		}
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", labelsW, "LABELS", dueW, "DUE", "REPEATS")
	fmt.Fprintln(w, headerStyle.Render(header))

	now := time.Now()
	for _, t := range tasks {
		row := fmt.Sprintf("%-*d %s %s %s %s %s %s",
			idW, t.ID,
			padRight(styledStatus(t.Status), statusW),
			padRight(styledPriority(t.Priority), prioW),
			padRight(truncate(t.Title, maxTitleWidth), titleW),
			padRight(labelsCell(t.Labels), labelsW),
			padRight(dueCell(t, now), dueW),
			repeatsCell(t))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. deps may be nil.
func TaskDetail(w io.Writer, t *task.Task, deps *board.Dependencies) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", styledStatus(t.Status))
	printField(w, "Priority", styledPriority(t.Priority))
	printField(w, "Project", stringOrDash(t.ProjectID))
	if t.PhaseID != "" {
		printField(w, "Phase", t.PhaseID)
	}
	if t.CategoryID != "" {
		printField(w, "Category", t.CategoryID)
	}
	printField(w, "Labels", labelsCell(t.Labels))
	printField(w, "Owner", stringOrDash(t.UserID))
	printField(w, "Assignee", stringOrDash(t.AssigneeID))
	if t.StartDate != nil {
		printField(w, "Start", date.Format(*t.StartDate))
	}
	printField(w, "Due", dueCell(t, time.Now()))
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.Format(timeLayout))
	}
	if t.Recurrence != nil {
		printField(w, "Repeats", recurrenceDetail(t.Recurrence))
	}
	printField(w, "Created", t.Created.Format(timeLayout))
	printField(w, "Updated", t.Updated.Format(timeLayout))

	if deps != nil {
		printField(w, "Blocked by", taskRefs(deps.BlockedBy, deps.Missing))
		printField(w, "Blocking", taskRefs(deps.Blocking, nil))
	} else if len(t.BlockedBy) > 0 {
		printField(w, "Blocked by", idRefs(t.BlockedBy))
	}

	if strings.TrimSpace(t.Description) != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, Markdown(t.Description))
	}
}

// UpcomingDates lists the next due dates a recurring task would get.
func UpcomingDates(w io.Writer, dates []time.Time) {
	if len(dates) == 0 {
		return
	}
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = date.Format(d)
	}
	printField(w, "Upcoming", strings.Join(parts, ", "))
}

// DepsTable renders the dependency view of a task.
func DepsTable(w io.Writer, d *board.Dependencies) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Task #%d: %s", d.Task.ID, d.Task.Title)))
	state := "ready"
	if d.Blocked {
		state = warnStyle.Render("waiting on " + idRefs(d.Unresolved))
	}
	printField(w, "State", state)
	if len(d.Cycle) > 0 {
		printField(w, "Cycle", warnStyle.Render(strings.ReplaceAll(idRefs(d.Cycle), ", ", " -> ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("BLOCKED BY"))
	depRows(w, d.BlockedBy)
	for _, id := range d.Missing {
		fmt.Fprintf(w, "  #%d %s\n", id, dimStyle.Render("(missing, counts as resolved)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("BLOCKING"))
	depRows(w, d.Blocking)
}

func depRows(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  "+dimStyle.Render("--"))
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "  #%-4d %s %s\n", t.ID, padRight(styledStatus(t.Status), 13), t.Title) //nolint:mnd // status column
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.TotalTasks)

	const statusColW = 16
	header := fmt.Sprintf("%-*s %6s %8s %8s %8s %9s", statusColW, "STATUS", "COUNT", "WIP", "WAITING", "OVERDUE", "RECURRING")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, ss := range s.Statuses {
		wip := dimStyle.Render("--")
		if ss.WIPLimit > 0 {
			wip = strconv.Itoa(ss.Count) + "/" + strconv.Itoa(ss.WIPLimit)
		}
		fmt.Fprintf(w, "%s %6d %8s %8d %8d %9d\n",
			padRight(styledStatus(ss.Status), statusColW),
			ss.Count, padLeft(wip, 8), ss.Waiting, ss.Overdue, ss.Recurring) //nolint:mnd // column width
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", statusColW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledPriority(pc.Priority), statusColW), pc.Count)
	}
}

// GroupedTable renders a grouped board view with per-group status breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	const groupStatusW = 16
	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)))
		for _, ss := range g.Statuses {
			if ss.Count == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s %d\n", padRight(styledStatus(ss.Status), groupStatusW), ss.Count)
		}
	}
}

// LogTable renders activity log entries, oldest first.
func LogTable(w io.Writer, entries []board.LogEntry) {
	for _, e := range entries {
		who := ""
		if e.Actor != "" {
			who = " " + labelStyle.Render(e.Actor)
		}
		fmt.Fprintf(w, "  %s %-10s%s %s\n", dimStyle.Render(e.Timestamp.Format(timeLayout)), e.Action, who, e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func recurrenceDetail(r *task.RecurrenceRule) string {
	text := recurrence.Describe(*r)
	if !r.Enabled {
		return dimStyle.Render(text + " (paused)")
	}
	if r.ParentTaskID != nil {
		text += fmt.Sprintf(" (occurrence %d of series #%d)", r.OccurrenceCount+1, *r.ParentTaskID)
	}
	return text
}

func repeatsCell(t *task.Task) string {
	if !t.Recurring() {
		return dimStyle.Render("--")
	}
	return recurrence.Describe(*t.Recurrence)
}

func dueCell(t *task.Task, now time.Time) string {
	if t.DueDate == nil {
		return dimStyle.Render("--")
	}
	s := date.Format(*t.DueDate)
	if t.Overdue(now) {
		return warnStyle.Render(s)
	}
	return s
}

func labelsCell(labels task.Set[string]) string {
	if len(labels) == 0 {
		return dimStyle.Render("--")
	}
	return labelStyle.Render(truncate(strings.Join(labels, ","), maxLabelsWidth))
}

func taskRefs(tasks []*task.Task, missing []int) string {
	if len(tasks) == 0 && len(missing) == 0 {
		return dimStyle.Render("--")
	}
	parts := make([]string, 0, len(tasks)+len(missing))
	for _, t := range tasks {
		parts = append(parts, fmt.Sprintf("#%d %s", t.ID, styledStatus(t.Status)))
	}
	for _, id := range missing {
		parts = append(parts, fmt.Sprintf("#%d %s", id, dimStyle.Render("missing")))
	}
	return strings.Join(parts, ", ")
}

func idRefs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func padLeft(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return strings.Repeat(" ", width-visible) + s
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func styledStatus(s task.Status) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(string(s))
	}
	return string(s)
}

func styledPriority(p string) string {
	if st, ok := priorityStyles[p]; ok {
		return st.Render(p)
	}
	return p
}
