package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler hands each record to every child handler that is enabled for
// its level.
type teeHandler []slog.Handler

// Multi returns a logger writing through all of loggers, for example a
// terminal logger plus the debug file. Nil loggers are skipped.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	var t teeHandler
	for _, l := range loggers {
		if l != nil {
			t = append(t, l.Handler())
		}
	}
	return slog.New(t)
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle keeps going when one child fails, so a full disk under the debug
// file does not silence the terminal.
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) each(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}
	return out
}
