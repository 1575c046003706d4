// Package logging builds the zerolog loggers used for diagnostics.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = zerolog.WarnLevel

// ParseLevel maps a level name to a zerolog level. An empty name yields
// DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return DefaultLevel, nil
	}
	return zerolog.ParseLevel(name)
}

// New returns a human-readable logger writing to w at the given level.
// Color is dropped when noColor is set.
func New(w io.Writer, level zerolog.Level, noColor bool) zerolog.Logger {
	cw := zerolog.NewConsoleWriter()
	cw.Out = w
	cw.TimeFormat = time.TimeOnly
	cw.NoColor = noColor
	return zerolog.New(cw).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Stderr is New writing to standard error.
func Stderr(level zerolog.Level, noColor bool) zerolog.Logger {
	return New(os.Stderr, level, noColor)
}
