package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/manzanit0/locations/pkg/middleware"
)

func InitGlobalSlog(service string, debug bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	logger := slog.New(NewContextJSONHandler(os.Stdout, opts))
	logger = logger.With("service", service)
	slog.SetDefault(logger)
}

// ContextJSONHandler decorates records with the trace ID set by
// middleware.TraceID, if any.
type ContextJSONHandler struct {
	jsonHandler slog.Handler
}

func NewContextJSONHandler(w io.Writer, opts *slog.HandlerOptions) *ContextJSONHandler {
	return &ContextJSONHandler{slog.NewJSONHandler(w, opts)}
}

func (h *ContextJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.jsonHandler.Enabled(ctx, level)
}

func (h *ContextJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextJSONHandler{jsonHandler: h.jsonHandler.WithAttrs(attrs)}
}

func (h *ContextJSONHandler) WithGroup(name string) slog.Handler {
	return &ContextJSONHandler{jsonHandler: h.jsonHandler.WithGroup(name)}
}

func (h *ContextJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := middleware.TraceIDFromContext(ctx); traceID != "" {
		r.AddAttrs(slog.String(string(middleware.CtxKeyTraceID), traceID))
	}

	return h.jsonHandler.Handle(ctx, r)
}
