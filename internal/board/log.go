package board

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Activity actions.
const (
	ActionCreate     = "create"
	ActionEdit       = "edit"
	ActionMove       = "move"
	ActionComplete   = "complete"
	ActionRegenerate = "regenerate"
	ActionBlock      = "block"
	ActionUnblock    = "unblock"
	ActionDelete     = "delete"
	ActionShare      = "share"
	ActionTeam       = "team"
	ActionProject    = "project"
)

// LogEntry represents a single activity log entry.
type LogEntry struct {
	Timestamp time.Time `json:"time"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail"`
}

// AppendLog writes entry as one JSON line to the board's activity log.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
func AppendLog(boardDir string, entry LogEntry) error {
	path := filepath.Join(boardDir, logFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted board dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	lg := zerolog.New(f)
	ev := lg.Log().
		Time(zerolog.TimestampFieldName, entry.Timestamp).
		Str("action", entry.Action)
	if entry.TaskID != 0 {
		ev = ev.Int("task_id", entry.TaskID)
	}
	if entry.Actor != "" {
		ev = ev.Str("actor", entry.Actor)
	}
	ev.Str("detail", entry.Detail).Send()

	if err := f.Close(); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateLogIfNeeded(path)

	return nil
}

// truncateLogIfNeeded rewrites the log keeping only the most recent
// maxLogEntries lines.
func truncateLogIfNeeded(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	if len(lines) <= maxLogEntries {
		return nil
	}

	lines = lines[len(lines)-maxLogEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// ReadLog returns the newest limit entries for taskID, oldest first. A zero
// taskID returns entries for every task; a zero limit returns all of them.
// Lines that fail to parse are skipped.
func ReadLog(boardDir string, taskID, limit int) ([]LogEntry, error) {
	lines, err := readLines(filepath.Join(boardDir, logFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	var entries []LogEntry
	for _, line := range lines {
		var e LogEntry
		if json.Unmarshal([]byte(line), &e) != nil {
			continue
		}
		if taskID != 0 && e.TaskID != taskID {
			continue
		}
		entries = append(entries, e)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// LogMutation appends an activity log entry. Errors are silently discarded
// because logging should never fail a command.
func LogMutation(boardDir, action string, taskID int, detail string) {
	_ = AppendLog(boardDir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
	})
}

// LogActorMutation is LogMutation with the acting user recorded.
func LogActorMutation(boardDir, actor, action string, taskID int, detail string) {
	_ = AppendLog(boardDir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		TaskID:    taskID,
		Actor:     actor,
		Detail:    detail,
	})
}
