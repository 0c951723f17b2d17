package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Fatal("expected error for unknown level")
	}
	logger, err := New("debug", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("expected debug level to be enabled")
	}
}

func TestSubsystemTagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	Subsystem(zap.New(core), "forecast").Info("request failed")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["subsystem"]; got != "forecast" {
		t.Errorf("subsystem = %v, want forecast", got)
	}

	// A nil logger is tolerated.
	Subsystem(nil, "compare").Info("ignored")
}
