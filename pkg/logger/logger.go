// Package logger builds the application's slog loggers: a colored text
// handler for terminals and a JSON handler for structured collection.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// Substrings that mark a log line as a database operation; those lines are
// highlighted green so persistence activity stands out in a scroll.
var dbHighlights = []string{"persist", "database", "index", "upsert"}

// colorHandler wraps a text handler and colors lines by level.
type colorHandler struct {
	next slog.Handler
	out  io.Writer
}

func (h *colorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *colorHandler) Handle(ctx context.Context, r slog.Record) error {
	var color string
	switch {
	case r.Level >= slog.LevelError:
		color = colorRed
	case r.Level >= slog.LevelWarn:
		color = colorYellow
	default:
		msg := strings.ToLower(r.Message)
		for _, hl := range dbHighlights {
			if strings.Contains(msg, hl) {
				color = colorGreen
				break
			}
		}
	}

	if color == "" {
		return h.next.Handle(ctx, r)
	}

	if _, err := io.WriteString(h.out, color); err != nil {
		return err
	}
	err := h.next.Handle(ctx, r)
	if _, werr := io.WriteString(h.out, colorReset); werr != nil && err == nil {
		err = werr
	}
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{next: h.next.WithAttrs(attrs), out: h.out}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	return &colorHandler{next: h.next.WithGroup(name), out: h.out}
}

// NewDefaultLogger returns a colored terminal logger at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level, "text")
}

// NewLogger builds a logger writing to w. format is "text" or "json"; text
// output is colored.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(&colorHandler{
		next: slog.NewTextHandler(w, opts),
		out:  w,
	})
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
