// Package output renders command results as tables, compact lines, or JSON.
package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect picks the format from the output flags, falling back to the
// TASKFLOW_OUTPUT value in env and then to table.
func Detect(jsonFlag, tableFlag, compactFlag bool, env string) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}

	switch strings.ToLower(strings.TrimSpace(env)) {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}

// colorEnabled is false once DisableColor has run.
var colorEnabled = true

// DisableColor switches lipgloss to the ASCII profile and drops every style,
// so tables and markdown render as plain text.
func DisableColor() {
	colorEnabled = false
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	labelStyle = lipgloss.NewStyle()
	warnStyle = lipgloss.NewStyle()
	statusStyles = nil
	priorityStyles = nil
}
