package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// NewHandler returns a colored charmbracelet handler in development and JSON otherwise.
func NewHandler(w io.Writer, name, env string) slog.Handler {
	if env == "development" {
		return log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Prefix:          name,
			Level:           log.DebugLevel,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}).
		WithAttrs([]slog.Attr{slog.String("service", name)})
}

func New(name, env string) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, name, env))
}

// Setup installs the process logger as the slog default and returns it.
func Setup(name, env string) *slog.Logger {
	l := New(name, env)
	slog.SetDefault(l)
	return l
}
