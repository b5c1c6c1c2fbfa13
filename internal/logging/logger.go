// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to w. Format "json" produces one JSON
// object per line for journald; anything else uses tint's coloured text.
func New(w io.Writer, level slog.Level, format, version, appName string) *slog.Logger {
	if format == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
		return slog.New(h).With(
			"app", appName,
			"version", version,
		)
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  version == "dev",
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	})
	return slog.New(h).With("app", appName)
}
