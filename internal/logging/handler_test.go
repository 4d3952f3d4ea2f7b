package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	now := time.Now()
	logger.Info("hello world", "slug", "first-post")

	output := buf.String()
	for _, want := range []string{"INFO", "hello world", "slug=first-post"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %q", want, output)
		}
	}
	if !strings.Contains(output, now.Format(time.Kitchen)) && !strings.Contains(output, time.Now().Format(time.Kitchen)) {
		t.Errorf("expected kitchen time in output, got: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("expected trailing newline, got: %q", output)
	}
}

func TestHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).With("component", "store").WithGroup("reload")

	logger.Info("message", "generation", 3)

	output := buf.String()
	if !strings.Contains(output, "component=store") {
		t.Errorf("expected common attribute in output, got: %q", output)
	}
	if !strings.Contains(output, "reload.generation=3") {
		t.Errorf("expected grouped attribute in output, got: %q", output)
	}
}

func TestHandler_QuotesValues(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, nil)).Warn("skipping", "reason", "bad front matter")
	if !strings.Contains(buf.String(), `reason="bad front matter"`) {
		t.Errorf("expected quoted value, got: %q", buf.String())
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := t.Context()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected Info level to be disabled when min level is Warn")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("expected Warn level to be enabled")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
}

func TestHandler_Trace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))
	logger.Log(t.Context(), LevelTrace, "deep detail")
	if !strings.Contains(buf.String(), "TRACE deep detail") {
		t.Errorf("expected TRACE label, got: %q", buf.String())
	}
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)
	if err := h.Handle(t.Context(), r); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "INFO  no time") {
		t.Errorf("expected no time in output, got: %q", buf.String())
	}
}

func TestMultiHandler(t *testing.T) {
	var text, json bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&json, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))

	logger.Info("only json")
	if text.Len() != 0 {
		t.Errorf("expected text handler to skip info, got: %q", text.String())
	}
	if !strings.Contains(json.String(), `"msg":"only json"`) {
		t.Errorf("expected json record, got: %q", json.String())
	}

	logger.With("k", "v").Error("both")
	if !strings.Contains(text.String(), "both k=v") {
		t.Errorf("expected text record, got: %q", text.String())
	}
	if !strings.Contains(json.String(), `"k":"v"`) {
		t.Errorf("expected json attribute, got: %q", json.String())
	}
}
