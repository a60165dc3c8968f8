package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanout delivers each record to every sink whose level admits it.
type fanout []slog.Handler

func newFanout(sinks ...slog.Handler) fanout {
	out := make(fanout, 0, len(sinks))
	for _, h := range sinks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle keeps going after a failing sink and reports every failure.
func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(wrap func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = wrap(h)
	}
	return out
}

// runAttrsHandler appends the current run attributes to each record at
// handle time, so attributes set after Setup still reach every logger.
type runAttrsHandler struct {
	inner slog.Handler
	attrs func() []slog.Attr
}

func (h runAttrsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h runAttrsHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := h.attrs(); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h runAttrsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return runAttrsHandler{inner: h.inner.WithAttrs(attrs), attrs: h.attrs}
}

func (h runAttrsHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return runAttrsHandler{inner: h.inner.WithGroup(name), attrs: h.attrs}
}
