// Package task holds the task entity, its recurrence rule, and the markdown
// file codec the board store uses to persist it.
package task

import "time"

// Task is a unit of work parsed from a markdown file with YAML frontmatter.
type Task struct {
	ID          int             `yaml:"id" json:"id"`
	Title       string          `yaml:"title" json:"title"`
	Status      Status          `yaml:"status" json:"status"`
	Priority    string          `yaml:"priority" json:"priority"`
	ProjectID   string          `yaml:"project,omitempty" json:"project_id,omitempty"`
	PhaseID     string          `yaml:"phase,omitempty" json:"phase_id,omitempty"`
	CategoryID  string          `yaml:"category,omitempty" json:"category_id,omitempty"`
	Labels      Set[string]     `yaml:"labels,omitempty" json:"labels,omitempty"`
	UserID      string          `yaml:"owner,omitempty" json:"user_id,omitempty"`
	AssigneeID  string          `yaml:"assignee,omitempty" json:"assignee_id,omitempty"`
	StartDate   *time.Time      `yaml:"start,omitempty" json:"start_date,omitempty"`
	DueDate     *time.Time      `yaml:"due,omitempty" json:"due_date,omitempty"`
	CompletedAt *time.Time      `yaml:"completed,omitempty" json:"completed_at,omitempty"`
	Recurrence  *RecurrenceRule `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	BlockedBy   Set[int]        `yaml:"blocked_by,omitempty" json:"blocked_by,omitempty"`
	Created     time.Time       `yaml:"created" json:"created"`
	Updated     time.Time       `yaml:"updated" json:"updated"`

	// Description is the markdown content below the frontmatter.
	Description string `yaml:"-" json:"description,omitempty"`

	// File is the path to the task file.
	File string `yaml:"-" json:"file,omitempty"`
}

// Recurring reports whether the task carries an enabled recurrence rule.
func (t *Task) Recurring() bool {
	return t.Recurrence.Active()
}

// Overdue reports whether the task is unresolved and due before now.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && !t.Status.Resolved() && t.DueDate.Before(now)
}
