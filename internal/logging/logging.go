// Package logging builds the launcher's zerolog logger. Inside the add-on
// container stderr is collected by the supervisor, so lines are JSON; on an
// interactive terminal a console writer is used instead.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a JSON logger on w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "launcher").Logger()
}

// Setup returns the process logger writing to stderr.
func Setup(level zerolog.Level) zerolog.Logger {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return New(cw, level)
	}
	return New(os.Stderr, level)
}
