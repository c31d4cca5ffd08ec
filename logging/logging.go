// Package logging wires the engine's managers to a single zerolog
// configuration: console-pretty in development, JSON on everything else.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger for the given component name. pretty selects the
// human-readable console writer (suited to a terminal); otherwise records
// are emitted as JSON lines to w.
func New(component string, w io.Writer, pretty bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// Nop returns a logger that discards everything, for use in tests and in
// any code path that does not accept a logger explicitly.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Child derives a sub-component logger from an already-configured parent,
// tagging its records with component without disturbing whatever fields
// or level the parent already carries.
func Child(parent zerolog.Logger, component string) zerolog.Logger {
	return parent.With().Str("component", component).Logger()
}
