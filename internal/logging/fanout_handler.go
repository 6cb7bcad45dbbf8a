package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler writes each record to every branch that accepts its level. A
// failing branch does not stop the others; errors are joined.
type teeHandler []slog.Handler

// TeeHandler combines handlers. Nil handlers are ignored; a single handler is
// returned unchanged.
func TeeHandler(handlers ...slog.Handler) slog.Handler {
	var branches teeHandler
	for _, h := range handlers {
		if h != nil {
			branches = append(branches, h)
		}
	}
	switch len(branches) {
	case 0:
		return discardHandler{}
	case 1:
		return branches[0]
	}
	return branches
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		// Handlers may retain the record; each gets its own attr storage.
		if err := h.Handle(ctx, record.Clone()); err != nil {
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
	next := make(teeHandler, len(t))
	for i, h := range t {
		next[i] = fn(h)
	}
	return next
}
