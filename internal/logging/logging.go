// Package logging provides the shared process logger.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

var level = new(slog.LevelVar)

var logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
	Level:   level,
	NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
}))

// Logger returns the process logger.
func Logger() *slog.Logger {
	return logger
}

// SetLevel adjusts the minimum level the process logger emits.
func SetLevel(l slog.Level) {
	level.Set(l)
}
