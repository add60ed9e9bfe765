// Package logging builds the process-wide diagnostic logger.
//
// Everything written through it goes to standard error, never standard
// output: stdout is reserved for the tool-protocol transport and a
// stray banner there is a protocol-breaking bug (spec §5).
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger writing to stderr. When stderr is a
// terminal it uses the human-friendly console writer; otherwise plain
// JSON lines, the way a process running under a supervisor expects.
func New(component string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if fi, err := os.Stderr.Stat(); err == nil && (fi.Mode()&os.ModeCharDevice) != 0 {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}
