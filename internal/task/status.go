package task

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task.
type Status string

// Task statuses.
const (
	StatusToDo       Status = "to_do"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in board column order.
var Statuses = []Status{
	StatusToDo, StatusInProgress, StatusBlocked, StatusOnHold, StatusCompleted, StatusCancelled,
}

var statusAliases = map[string]Status{
	"todo":     StatusToDo,
	"open":     StatusToDo,
	"doing":    StatusInProgress,
	"hold":     StatusOnHold,
	"done":     StatusCompleted,
	"canceled": StatusCancelled,
}

// normalizeKey lowercases s and folds spaces and hyphens to underscores.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ParseStatus normalizes s to a known status.
func ParseStatus(s string) (Status, error) {
	st := normalizeStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

func normalizeStatus(s string) Status {
	key := normalizeKey(s)
	if alias, ok := statusAliases[key]; ok {
		return alias
	}
	return Status(key)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Resolved reports whether the status no longer blocks dependents.
func (s Status) Resolved() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// UnmarshalText normalizes spelling variants. Unknown values are kept as is.
func (s *Status) UnmarshalText(text []byte) error {
	*s = normalizeStatus(string(text))
	return nil
}

// StatusStrings returns the status names as plain strings.
func StatusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}
