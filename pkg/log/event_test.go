package log

import (
	"testing"
	"time"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(99).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerWire.String(), "WIRE"},
		{LayerService.String(), "SERVICE"},
		{Layer(99).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{Category(1).String(), "UNKNOWN"},
		{StateEntityConnection.String(), "CONNECTION"},
		{StateEntityEngine.String(), "ENGINE"},
		{StateEntityAssets.String(), "ASSETS"},
		{StateEntity(99).String(), "UNKNOWN"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEventCBORKeepsMessageFields(t *testing.T) {
	latency := 15 * time.Millisecond
	in := Event{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
		SessionID: "session-1",
		Direction: DirectionIn,
		Layer:     LayerWire,
		Category:  CategoryMessage,
		Transport: "stdio",
		Message: &MessageEvent{
			Type:    "assets/lists",
			ID:      4,
			Reply:   true,
			Payload: map[string]any{"all": []any{"a.png"}},
			Latency: &latency,
		},
	}

	data, err := EncodeEvent(in)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	out, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("timestamp: got %v, want %v", out.Timestamp, in.Timestamp)
	}
	if out.Message == nil {
		t.Fatal("message lost")
	}
	if out.Message.Type != "assets/lists" || out.Message.ID != 4 || !out.Message.Reply {
		t.Errorf("unexpected message %+v", out.Message)
	}
	if out.Message.Latency == nil || *out.Message.Latency != latency {
		t.Errorf("latency: got %v", out.Message.Latency)
	}
	payload, ok := out.Message.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload decoded as %T", out.Message.Payload)
	}
	if _, ok := payload["all"]; !ok {
		t.Errorf("payload lost its key: %v", payload)
	}
}
