package clog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingHandler struct {
	records []slog.Record
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, record slog.Record) error {
	h.records = append(h.records, record)
	return nil
}

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capturingHandler) WithGroup(string) slog.Handler      { return h }

func TestAttributesHandlerMergesContextAttributes(t *testing.T) {
	inner := &capturingHandler{}
	handler := NewAttributesHandler(inner)

	ctx := ContextWithSlog(context.Background())
	AddAttribute(ctx, "user_id", "u1")
	AddAttribute(ctx, "request_id", "r1")

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "task created", 0)
	require.NoError(t, handler.Handle(ctx, record))
	require.Len(t, inner.records, 1)

	var keys []string
	inner.records[0].Attrs(func(a slog.Attr) bool {
		keys = append(keys, a.Key)
		return true
	})
	assert.Equal(t, []string{"request_id", "user_id"}, keys)
}

func TestAttributesHandlerWithoutContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := NewAttributesHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	logger.InfoContext(context.Background(), "hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "user_id")
}
