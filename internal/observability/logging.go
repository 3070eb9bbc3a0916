// Package observability provides logging and metrics.
package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the application's structured logger. Output is JSON on
// stdout; debug level outside production. The logger is passed explicitly to
// every component that logs; there is no process-wide singleton.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == "production" || env == "prod" {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With(slog.String("app", "userbase"))
}
