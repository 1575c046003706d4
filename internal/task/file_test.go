package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	due := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	day := 31
	in := &Task{
		ID:          7,
		Title:       "Pay rent",
		Status:      StatusToDo,
		Priority:    "high",
		ProjectID:   "home",
		Labels:      NewSet("bills"),
		UserID:      "alice",
		DueDate:     &due,
		BlockedBy:   NewSet(3, 4),
		Created:     due,
		Updated:     due,
		Description: "Transfer before noon.",
		Recurrence: &RecurrenceRule{
			Enabled:    true,
			Interval:   Monthly,
			DayOfMonth: &day,
		},
	}
	path := filepath.Join(dir, GenerateFilename(in.ID, GenerateSlug(in.Title)))
	if err := Write(path, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Title != in.Title || out.Status != in.Status || out.Description != in.Description {
		t.Errorf("Read = %+v", out)
	}
	if out.DueDate == nil || !out.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", out.DueDate, due)
	}
	if !out.BlockedBy.Contains(3) || !out.BlockedBy.Contains(4) {
		t.Errorf("BlockedBy = %v", out.BlockedBy)
	}
	if out.Recurrence == nil || out.Recurrence.DayOfMonth == nil || *out.Recurrence.DayOfMonth != 31 {
		t.Errorf("Recurrence = %+v", out.Recurrence)
	}
}

func TestReadAllLenientSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	good := "---\nid: 1\ntitle: ok\nstatus: todo\npriority: low\nblocked_by: \"2, 3\"\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "001-ok.md"), []byte(good), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "002-bad.md"), []byte("no frontmatter"), 0o600); err != nil {
		t.Fatal(err)
	}

	tasks, warnings, err := ReadAllLenient(dir)
	if err != nil {
		t.Fatalf("ReadAllLenient: %v", err)
	}
	if len(tasks) != 1 || len(warnings) != 1 {
		t.Fatalf("got %d tasks, %d warnings; want 1, 1", len(tasks), len(warnings))
	}
	if tasks[0].Status != StatusToDo {
		t.Errorf("Status = %q, want to_do", tasks[0].Status)
	}
	if len(tasks[0].BlockedBy) != 2 {
		t.Errorf("BlockedBy = %v", tasks[0].BlockedBy)
	}
	if !strings.Contains(warnings[0].File, "002") {
		t.Errorf("warning file = %q", warnings[0].File)
	}

	if _, err := FindByID(dir, 1); err != nil {
		t.Errorf("FindByID(1): %v", err)
	}
	if _, err := FindByID(dir, 9); err == nil {
		t.Error("FindByID(9) found a missing task")
	}
}

func TestSetStatusMaintainsCompletedAt(t *testing.T) {
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	tk := &Task{Status: StatusToDo}
	if !SetStatus(tk, StatusCompleted, now) || tk.CompletedAt == nil {
		t.Fatalf("completing did not set CompletedAt: %+v", tk)
	}
	SetStatus(tk, StatusToDo, now)
	if tk.CompletedAt != nil {
		t.Error("reopening did not clear CompletedAt")
	}
	if SetStatus(tk, StatusToDo, now) {
		t.Error("same-status move reported a change")
	}
}

func TestDescriptionStableAcrossRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "001-notes.md")
	tk := &Task{ID: 1, Title: "Notes", Status: StatusToDo, Priority: "low",
		Description: "first line\n\nsecond paragraph"}

	for i := range 3 {
		if err := Write(path, tk); err != nil {
			t.Fatalf("Write #%d: %v", i, err)
		}
		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read #%d: %v", i, err)
		}
		if got.Description != "first line\n\nsecond paragraph" {
			t.Fatalf("rewrite #%d description = %q", i, got.Description)
		}
		tk = got
	}
}
