// Package logger provides structured logging setup for chiptune.
// Text logs go through tint for the terminal; JSON logs are meant for CI harnesses.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chiptune-stack/chiptune/internal/constants"
	"github.com/chiptune-stack/chiptune/internal/secrets"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Initialize sets up the global slog logger writing to stderr.
func Initialize(format constants.LogFormat, level slog.Level) *slog.Logger {
	logger := New(os.Stderr, format, level)
	slog.SetDefault(logger)
	slog.Debug("logger initialized", "format", format, "level", level)
	return logger
}

// New builds a logger for w without touching the global default.
func New(w io.Writer, format constants.LogFormat, level slog.Level) *slog.Logger {
	var handler slog.Handler

	if format == constants.LogFormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactAttr,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  time.TimeOnly,
			NoColor:     !colorEnabled(w),
			ReplaceAttr: redactAttr,
		})
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// redactAttr masks string attributes whose key looks like a secret.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && a.Value.String() != "" && secrets.IsSecretName(a.Key) {
		return slog.String(a.Key, secrets.RedactedValue)
	}
	return a
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
