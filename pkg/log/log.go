package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// root is the process-wide parent logger. Components never log through
// package-level helpers; they derive a child once and keep it, so every
// line carries its origin fields.
var root = newRoot(os.Stderr, false)

func newRoot(out io.Writer, jsonOut bool) zerolog.Logger {
	if jsonOut {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// Setup configures process logging once at startup. level is one of
// debug, info, warn, error; jsonOut switches from human console output
// to machine-readable lines. A nil out writes to stderr. Unknown levels
// are rejected so a typo in a config file fails loudly instead of
// silently logging everything.
func Setup(level string, jsonOut bool, out io.Writer) error {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return fmt.Errorf("unknown log level %q", level)
	}
	zerolog.SetGlobalLevel(parsed)

	if out == nil {
		out = os.Stderr
	}
	root = newRoot(out, jsonOut)
	return nil
}

// Quiet drops everything below errors. Tests call this so actor
// narration does not drown the test output.
func Quiet() {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
}

// WithComponent derives a child logger for one subsystem (supervisor,
// driver, api, ...).
func WithComponent(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

// ForUniverse derives a child logger carrying a universe's identity, so
// an actor's diagnostics are attributable without repeating the fields
// at every call site.
func ForUniverse(id uint64, name string) zerolog.Logger {
	return root.With().
		Uint64("universe_id", id).
		Str("universe", name).
		Logger()
}
