// Package logging constructs the zerolog loggers used by the CLI and the local emulator.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a level name to a zerolog level. Unknown or empty names yield info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a JSON logger tagged with the given service name.
func New(out io.Writer, service, level string) zerolog.Logger {
	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// NewConsole returns a human-readable logger for interactive commands.
func NewConsole(out io.Writer, level string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}
