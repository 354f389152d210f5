package logger

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// NewCLI returns the logger used by pptree commands: stderr, pretty when
// stderr is a terminal and plain text otherwise.
func NewCLI(debug bool) *slog.Logger {
	return New(
		WithDebug(debug),
		WithPretty(IsTerminal(os.Stderr)),
		WithWriter(os.Stderr),
	)
}
