package board

import (
	"testing"
	"time"
)

func TestAppendLogReadBack(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	entries := []LogEntry{
		{Timestamp: at, Action: ActionComplete, TaskID: 1, Detail: "Pay rent"},
		{Timestamp: at, Action: ActionRegenerate, TaskID: 2, Detail: "from #1"},
		{Timestamp: at, Action: ActionShare, Actor: "alice", Detail: "web with bob"},
	}
	for _, e := range entries {
		if err := AppendLog(dir, e); err != nil {
			t.Fatalf("AppendLog(%s): %v", e.Action, err)
		}
	}

	all, err := ReadLog(dir, 0, 0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(all) != len(entries) {
		t.Fatalf("read %d entries, want %d", len(all), len(entries))
	}
	last := all[2]
	if last.Action != ActionShare || last.Actor != "alice" || last.TaskID != 0 || !last.Timestamp.Equal(at) {
		t.Errorf("last entry = %+v", last)
	}

	forTask, err := ReadLog(dir, 2, 0)
	if err != nil {
		t.Fatalf("ReadLog(2): %v", err)
	}
	if len(forTask) != 1 || forTask[0].Detail != "from #1" {
		t.Errorf("entries for #2 = %+v", forTask)
	}
}

func TestReadLogMissingFile(t *testing.T) {
	entries, err := ReadLog(t.TempDir(), 0, 5)
	if err != nil || entries != nil {
		t.Fatalf("ReadLog on empty board = %v, %v; want nil, nil", entries, err)
	}
}
