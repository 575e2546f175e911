package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestLoggerHelpers(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.LogIndex(ctx, "u1", 42, nil)
	rec := lastRecord(t, &buf)
	assert.Equal(t, "index completed", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, float64(42), rec["rid"])

	l.LogUnindex(ctx, "u1", errors.New("boom"))
	rec = lastRecord(t, &buf)
	assert.Equal(t, "unindex failed", rec["msg"])
	assert.Equal(t, "boom", rec["error"])

	l.LogReindex(ctx, 10, 2, nil)
	rec = lastRecord(t, &buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, float64(2), rec["stale"])

	l.LogQuery(ctx, `eq(field_color, "red")`, 3, nil)
	rec = lastRecord(t, &buf)
	assert.Equal(t, float64(3), rec["total"])

	l.LogSnapshot(ctx, "save", "catalog.snap", nil)
	rec = lastRecord(t, &buf)
	assert.Equal(t, "snapshot save completed", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf).WithSchema("person").WithIndex("field_name").WithUID("u1").WithRID(7)

	l.Info("hello")
	rec := lastRecord(t, &buf)
	assert.Equal(t, "person", rec["schema"])
	assert.Equal(t, "field_name", rec["index"])
	assert.Equal(t, "u1", rec["uid"])
	assert.Equal(t, float64(7), rec["rid"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
