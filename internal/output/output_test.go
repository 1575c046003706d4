package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		json, table, compact bool
		env                  string
		want                 Format
	}{
		{false, false, false, "", FormatTable},
		{true, false, true, "", FormatJSON},
		{false, true, true, "", FormatCompact},
		{false, false, false, "JSON", FormatJSON},
		{false, false, false, "oneline", FormatCompact},
		{false, true, false, "json", FormatTable},
		{false, false, false, "yaml", FormatTable},
	}
	for _, tt := range tests {
		if got := Detect(tt.json, tt.table, tt.compact, tt.env); got != tt.want {
			t.Errorf("Detect(%v, %v, %v, %q) = %d, want %d", tt.json, tt.table, tt.compact, tt.env, got, tt.want)
		}
	}
}

func sampleTask() *task.Task {
	due := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	day := 15
	return &task.Task{
		ID:         7,
		Title:      "File taxes",
		Status:     task.StatusInProgress,
		Priority:   "high",
		Labels:     task.NewSet("home", "money"),
		AssigneeID: "alice",
		DueDate:    &due,
		BlockedBy:  task.NewSet(3),
		Recurrence: &task.RecurrenceRule{Enabled: true, Interval: task.Monthly, DayOfMonth: &day},
	}
}

func TestFormatTaskLine(t *testing.T) {
	got := formatTaskLine(sampleTask())
	want := "#7 [in_progress/high] File taxes @alice (home, money) due:2025-05-01 repeats:Monthly (day 15) after:#3"
	if got != want {
		t.Fatalf("formatTaskLine =\n  %q\nwant\n  %q", got, want)
	}
}

func TestPlainTables(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	TaskTable(&buf, []*task.Task{sampleTask()})
	out := buf.String()
	for _, want := range []string{"REPEATS", "File taxes", "home,money", "Monthly (day 15)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("table output contains escape codes after DisableColor:\n%q", out)
	}

	buf.Reset()
	AgendaCompact(&buf, board.Agenda{Overdue: []*task.Task{sampleTask()}})
	if !strings.HasPrefix(buf.String(), "overdue #7 ") {
		t.Errorf("agenda line = %q", buf.String())
	}
}
