package logger

import (
	"bytes"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(NewContextHandler(log.NewJSONHandler(&buf, nil)))

	ctx := WithTraceID(context.Background(), "abc")
	l.InfoContext(ctx, "hello")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0][TraceIDKey])
}

func TestWithTraceIDGeneratesID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "")
	assert.NotEmpty(t, TraceID(ctx))
	assert.Empty(t, TraceID(context.Background()))
}

func TestRemoteFilterHandler(t *testing.T) {
	var local, remote bytes.Buffer
	tee := NewTeeHandler(
		log.NewJSONHandler(&local, nil),
		NewRemoteFilterHandler(log.NewJSONHandler(&remote, nil)),
	)
	l := log.New(NewContextHandler(tee))

	l.Info("background info")
	l.Warn("background warn")
	l.InfoContext(WithTraceID(context.Background(), "t-1"), "request info")

	assert.Len(t, decodeLines(t, &local), 3)

	remoteLines := decodeLines(t, &remote)
	require.Len(t, remoteLines, 2)
	assert.Equal(t, "background warn", remoteLines[0]["msg"])
	assert.Equal(t, "request info", remoteLines[1]["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, log.LevelError, ParseLevel(" error "))
	assert.Equal(t, log.LevelInfo, ParseLevel("whatever"))
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(log.NewJSONHandler(&buf, &log.HandlerOptions{Level: log.LevelDebug})))
	t.Cleanup(func() { log.SetDefault(prev) })

	l := NewGormLogger("sqlite")
	ctx := context.Background()

	// Warn 模式下普通查询不记录
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT * FROM posts", 1 }, nil)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "select * from posts", 1 }, nil)
	l.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT INTO posts", 0 }, errors.New("locked"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "sqlite SELECT Slow", lines[0]["msg"])
	assert.Equal(t, "sqlite INSERT Error", lines[1]["msg"])
	assert.Equal(t, "locked", lines[1]["err"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...[truncated]", truncate("abc", 2))
	assert.Equal(t, "QUERY", sqlOperation("  "))
}

func TestFormatAccessLog(t *testing.T) {
	line := formatAccessLog(gin.LogFormatterParams{
		TimeStamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Method:     "POST",
		Path:       "/api/drafts/\"x\"/share",
		StatusCode: 500,
		Latency:    time.Second,
		Keys:       map[any]any{TraceIDKey: "t-1"},
	})

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	assert.Equal(t, "t-1", m["trace_id"])
	assert.Equal(t, "ERROR", m["level"])
	assert.Equal(t, "/api/drafts/\"x\"/share", m["path"])
	assert.Equal(t, "1s", m["latency"])
}
