package logging

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"":        LevelInfo,
		"DEBUG":   LevelDebug,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unsupported level")
	}
}

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "resolver")

	logger.Warn("upstream fetch failed", "kind", "team", "error", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "resolver" || fields["kind"] != "team" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["error"] != "boom" {
		t.Fatalf("expected error field, got %v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected odd trailing key to be kept, got %v", fields)
	}
}

func TestLogger_NamedAndTypedFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core)).Named("ws.hub")

	logger.Debug("dropped below level")
	logger.Info("client registered", "elapsed", 1500*time.Millisecond)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "ws.hub" {
		t.Fatalf("unexpected logger name %q", entries[0].LoggerName)
	}
	if got := entries[0].ContextMap()["elapsed"]; got != 1500*time.Millisecond {
		t.Fatalf("expected duration field, got %v (%T)", got, got)
	}
	if logger.Enabled(LevelDebug) || !logger.Enabled(LevelWarn) {
		t.Fatalf("unexpected level gate")
	}
}

func TestLogger_NilFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	logger.With("k", "v").WarnContext(t.Context(), "still no panic")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}
