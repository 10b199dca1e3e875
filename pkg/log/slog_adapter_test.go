package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func newDebugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSlogAdapterMessageEvent(t *testing.T) {
	var buf bytes.Buffer
	latency := 20 * time.Millisecond

	NewSlogAdapter(newDebugLogger(&buf)).Log(Event{
		Timestamp: time.Now(),
		SessionID: "session-1",
		Direction: DirectionIn,
		Layer:     LayerWire,
		Category:  CategoryMessage,
		Transport: "websocket",
		Message: &MessageEvent{
			Type:    "assets/lists",
			ID:      9,
			Reply:   true,
			Pending: 1,
			Latency: &latency,
		},
	})

	entry := decodeLogLine(t, &buf)
	want := map[string]any{
		"msg":        "protocol",
		"level":      "DEBUG",
		"session_id": "session-1",
		"direction":  "IN",
		"layer":      "WIRE",
		"transport":  "websocket",
		"type":       "assets/lists",
		"id":         float64(9),
		"reply":      true,
		"pending":    float64(1),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["latency"]; !ok {
		t.Error("expected latency attribute")
	}
}

func TestSlogAdapterStateAndError(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newDebugLogger(&buf))

	adapter.Log(Event{
		Category:    CategoryState,
		Layer:       LayerService,
		StateChange: &StateChangeEvent{Entity: StateEntityAssets, OldState: "empty", NewState: "pending"},
	})
	entry := decodeLogLine(t, &buf)
	if entry["entity"] != "ASSETS" || entry["new_state"] != "pending" {
		t.Errorf("unexpected state entry %v", entry)
	}

	buf.Reset()
	adapter.Log(Event{
		Category: CategoryError,
		Error:    &ErrorEventData{Layer: LayerTransport, Message: "broken pipe", Context: "send"},
	})
	entry = decodeLogLine(t, &buf)
	if entry["error_msg"] != "broken pipe" || entry["error_layer"] != "TRANSPORT" {
		t.Errorf("unexpected error entry %v", entry)
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewSlogAdapter(logger).Log(Event{Frame: &FrameEvent{Size: 10}})
	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %s", buf.String())
	}
}
