package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExtension)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func latency(d time.Duration) *time.Duration { return &d }

func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return []log.Event{
		{
			Timestamp: ts,
			SessionID: "3f2a9c1e-0000-4000-8000-000000000001",
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Transport: "websocket",
			Message:   &log.MessageEvent{Type: "engine/ready"},
		},
		{
			Timestamp: ts.Add(10 * time.Millisecond),
			SessionID: "3f2a9c1e-0000-4000-8000-000000000001",
			Direction: log.DirectionOut,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:    "assets/lists",
				ID:      1,
				Payload: map[string]any{"list": []any{"hero.png"}},
				Pending: 1,
			},
		},
		{
			Timestamp: ts.Add(25 * time.Millisecond),
			SessionID: "3f2a9c1e-0000-4000-8000-000000000001",
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:    "assets/lists",
				ID:      1,
				Reply:   true,
				Latency: latency(15 * time.Millisecond),
			},
		},
		{
			Timestamp: ts.Add(30 * time.Millisecond),
			SessionID: "3f2a9c1e-0000-4000-8000-000000000001",
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Message:   &log.MessageEvent{Type: "set/ui.zoom", Payload: 2.5},
		},
		{
			Timestamp: ts.Add(40 * time.Millisecond),
			SessionID: "3f2a9c1e-0000-4000-8000-000000000001",
			Layer:     log.LayerService,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityAssets,
				OldState: "loading",
				NewState: "ready",
			},
		},
	}
}

func TestFormatEventMessage(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.010000Z",
		"[session:3f2a9c1e]",
		"OUT WIRE assets/lists",
		"ID: 1",
		"Pending: 1",
		`Payload: {"list":["hero.png"]}`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatEventReply(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[2])
	output := buf.String()

	if !strings.Contains(output, "assets/lists (reply)") {
		t.Errorf("expected reply label in output:\n%s", output)
	}
	if !strings.Contains(output, "Latency: 15.000ms") {
		t.Errorf("expected latency in output:\n%s", output)
	}
}

func TestFormatEventStateChange(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[4])
	output := buf.String()

	if !strings.Contains(output, "Entity: ASSETS") {
		t.Errorf("expected entity in output:\n%s", output)
	}
	if !strings.Contains(output, "loading -> ready") {
		t.Errorf("expected transition in output:\n%s", output)
	}
}

func TestFormatEventError(t *testing.T) {
	event := log.Event{
		Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		SessionID: "abc",
		Layer:     log.LayerWire,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Layer: log.LayerWire, Message: "decode failed", Context: "receive"},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "[session:abc]") {
		t.Errorf("expected short session id kept as is:\n%s", output)
	}
	if !strings.Contains(output, "Message: decode failed") || !strings.Contains(output, "Context: receive") {
		t.Errorf("expected error details in output:\n%s", output)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2 * time.Second, "2.000s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Wire"); err != nil || l != log.LayerWire {
		t.Errorf("ParseLayerFlag(Wire) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("bogus"); err == nil {
		t.Error("expected error for invalid layer")
	}
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(OUT) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
	if c, err := ParseCategoryFlag("state"); err != nil || c != log.CategoryState {
		t.Errorf("ParseCategoryFlag(state) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("control"); err == nil {
		t.Error("expected error for removed control category")
	}
}

func TestRunViewFiltersByType(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{TypePattern: "set/*"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "set/ui.zoom") {
		t.Errorf("expected set/ui.zoom in output:\n%s", output)
	}
	if strings.Contains(output, "assets/lists") {
		t.Errorf("unexpected assets/lists in filtered output:\n%s", output)
	}
}

func TestRunViewFiltersByDirection(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	out := log.DirectionOut
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Direction: &out}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if got := strings.Count(buf.String(), "[session:"); got != 1 {
		t.Errorf("expected 1 outgoing event, got %d", got)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "missing.synclog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}
