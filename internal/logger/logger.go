package logger

import (
	"io"
	"log/slog"
	"os"
)

// New is the server logger: JSON at info in prod, text at debug elsewhere.
func New(env string) *slog.Logger {
	return NewTo(os.Stdout, env)
}

func NewTo(w io.Writer, env string) *slog.Logger {
	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(h)
}

// CLI logs to stderr so command output stays clean. Only warnings and errors
// show unless debug is set.
func CLI(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
