package clog

import (
	"context"
	"log/slog"
	"sort"
)

// AttributesHandler stamps every record with the attributes collected on
// the request context, so a handler only has to call AddAttribute and the
// values show up on each log line emitted during that request.
type AttributesHandler struct {
	handler slog.Handler
}

func NewAttributesHandler(handler slog.Handler) *AttributesHandler {
	return &AttributesHandler{handler: handler}
}

func (h *AttributesHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *AttributesHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := GetAttributes(ctx)
	if len(attrs) == 0 {
		return h.handler.Handle(ctx, record)
	}

	// Sort by key so attribute order is stable across log lines. The
	// record is cloned because the caller may reuse it.
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	record = record.Clone()
	for _, k := range keys {
		record.AddAttrs(slog.Any(k, attrs[k]))
	}
	return h.handler.Handle(ctx, record)
}

func (h *AttributesHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AttributesHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *AttributesHandler) WithGroup(name string) slog.Handler {
	return &AttributesHandler{handler: h.handler.WithGroup(name)}
}
