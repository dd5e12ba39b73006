package logging

import (
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to emit JSON to stdout at the given
// level.
func SetupJSON(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
