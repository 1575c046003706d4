// Package config handles taskflow board configuration.
package config

import "github.com/twiced-technology-gmbh/taskflow/internal/task"

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "taskflow"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultAccessFile holds projects, shares, and teams.
	DefaultAccessFile = "access.yml"
	// DefaultStatus is the default status for new tasks.
	DefaultStatus = task.StatusToDo
	// DefaultPriority is the default priority for new tasks.
	DefaultPriority = "medium"
	// DefaultTitleLines is the default number of title lines in TUI cards.
	DefaultTitleLines = 2
	// DefaultAgendaTime is when the daily agenda runs, as HH:MM.
	DefaultAgendaTime = "08:00"
	// DefaultAgendaLookahead is how many days ahead the agenda looks.
	DefaultAgendaLookahead = 7

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// DefaultPriorities for a new board, lowest first.
var DefaultPriorities = []string{
	"low",
	"medium",
	"high",
	"urgent",
}
