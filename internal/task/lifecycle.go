package task

import "time"

// SetStatus moves t to status and maintains CompletedAt:
//   - set on a move into completed (never overwritten while completed),
//   - cleared when a completed task is reopened.
//
// It reports whether the status changed.
func SetStatus(t *Task, status Status, now time.Time) bool {
	old := t.Status
	if old == status {
		return false
	}
	t.Status = status
	switch {
	case status == StatusCompleted:
		if t.CompletedAt == nil {
			t.CompletedAt = &now
		}
	case old == StatusCompleted:
		t.CompletedAt = nil
	}
	t.Updated = now
	return true
}
