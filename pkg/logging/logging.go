// Package logging sets up the module's structured logger: a slog.Logger
// writing JSON or text lines, optionally through a rotating file, and a
// context helper for attaching request-scoped attribute groups.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger returns a slog.Logger writing to w at the given level, JSON-encoded
// when json is true, otherwise in slog's default text format. Records made
// against a context previously passed to AppendCtx pick up its attributes.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(ContextHandler{Handler: handler})
}

// RotatingWriter returns an io.Writer that rolls path into timestamped
// backups once it exceeds maxSizeMB, keeping maxBackups of them.
func RotatingWriter(path string, maxSizeMB, maxBackups int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
}

type ctxKey struct{}

// AppendCtx returns a context carrying attrs, which ContextHandler-aware
// code can retrieve and add to every log record made with that context.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	return context.WithValue(ctx, ctxKey{}, append(existing, attrs...))
}

// FromCtx returns the attributes previously attached to ctx by AppendCtx.
func FromCtx(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	return attrs
}

// ContextHandler wraps a slog.Handler so records carry attributes attached
// to their context via AppendCtx, without every call site repeating them.
type ContextHandler struct {
	slog.Handler
}

// Handle adds ctx's attached attributes to r before delegating.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, attr := range FromCtx(ctx) {
		r.AddAttrs(attr)
	}
	return h.Handler.Handle(ctx, r)
}
