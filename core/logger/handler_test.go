package logger

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(format logFormat) (*slog.Logger, *asyncWriter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	return slog.New(h), aw, buf
}

func drain(t *testing.T, aw *asyncWriter, buf *bytes.Buffer) string {
	t.Helper()
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestKVLineKeyOrder(t *testing.T) {
	log, aw, buf := newTestLogger(formatKV)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	LogEvent(ctx, log.With("component", "router"), slog.LevelInfo, "image.sent",
		slog.String("status", "ok"),
		slog.String("category", "Minimalist Zen"),
	)
	line := drain(t, aw, buf)

	tokens := strings.Split(line, " ")
	want := []string{"ts=", "level=INFO", "component=router", "event=image.sent", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9"}
	for i, prefix := range want {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, want prefix %s (line %s)", i, tokens[i], prefix, line)
		}
	}
	if !strings.Contains(line, `category="Minimalist Zen"`) {
		t.Fatalf("expected quoted category, got %s", line)
	}
}

func TestJSONLineKeyOrder(t *testing.T) {
	log, aw, buf := newTestLogger(formatJSON)
	ctx := WithRID(Background(), "rid-json")

	LogEvent(ctx, log.With("component", "search"), slog.LevelError, "search.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)
	line := drain(t, aw, buf)

	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"search"`, `"event":"search.failed"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestCompactRID(t *testing.T) {
	log, aw, buf := newTestLogger(formatJSON)
	raw := "12:34:56"
	LogEvent(WithRID(Background(), raw), log, slog.LevelInfo, "rid.test")
	line := drain(t, aw, buf)

	if !strings.Contains(line, `"rid":"`+CompactRID(raw)+`"`) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+raw+`"`) {
		t.Fatalf("expected rid_full, got %s", line)
	}
	if CompactRID("not-a-rid") != "not-a-rid" {
		t.Fatal("malformed rid must be returned unchanged")
	}
}

func TestDurationAndEnumNormalization(t *testing.T) {
	log, aw, buf := newTestLogger(formatKV)
	LogEvent(Background(), log, slog.LevelInfo, "search.done",
		slog.Duration("duration", 1499*time.Microsecond),
		slog.String("cache", "bogus"),
		slog.String("outcome", "no_result"),
	)
	line := drain(t, aw, buf)

	if !strings.Contains(line, "duration_ms=1") {
		t.Fatalf("expected duration_ms, got %s", line)
	}
	if strings.Contains(line, "cache=") {
		t.Fatalf("unknown cache value should be dropped, got %s", line)
	}
	if !strings.Contains(line, "outcome=no_result") {
		t.Fatalf("expected outcome, got %s", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{level: slog.LevelWarn, writer: aw, format: formatKV}))
	log.Info("dropped")
	log.Warn("kept")
	line := drain(t, aw, buf)
	if strings.Contains(line, "dropped") || !strings.Contains(line, "event=kept") {
		t.Fatalf("unexpected output %q", line)
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var got []bool
	for i := 0; i < 6; i++ {
		got = append(got, s.Allow())
	}
	want := []bool{true, false, false, true, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("allow #%d = %v, want %v", i, got[i], want[i])
		}
	}
	if num, den := parseRatioSpec("20"); num != 1 || den != 20 {
		t.Fatalf("parseRatioSpec(20) = %d/%d", num, den)
	}
}
