package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramic-editor/editor-sync/pkg/log"
)

func TestCollect(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	r, err := log.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	stats, err := Collect(r)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalEvents)
	assert.Equal(t, 4, stats.EventsByCategory[log.CategoryMessage])
	assert.Equal(t, 1, stats.EventsByCategory[log.CategoryState])
	assert.Equal(t, 2, stats.MessagesByType["assets/lists"])
	assert.Equal(t, 1, stats.MessagesByType["set/ui.zoom"])

	require.Len(t, stats.Sessions, 1)
	sess := stats.Sessions["3f2a9c1e-0000-4000-8000-000000000001"]
	require.NotNil(t, sess)
	assert.Equal(t, 5, sess.Events)
	assert.Equal(t, 1, sess.Replies)
	assert.Equal(t, 1, sess.MaxPending)
	assert.Equal(t, 15*time.Millisecond, sess.AvgLatency())
	assert.Equal(t, "websocket", sess.Transport)
	assert.Equal(t, "ready", sess.LastAssets)
}

func TestSessionStatsAvgLatencyWithoutReplies(t *testing.T) {
	var s SessionStats
	if s.AvgLatency() != 0 {
		t.Errorf("AvgLatency() = %v, want 0", s.AvgLatency())
	}
}

func TestRunStatsOutput(t *testing.T) {
	path := createTestLogFile(t, append(sampleEvents(), log.Event{
		Timestamp: time.Date(2026, 3, 2, 9, 31, 0, 0, time.UTC),
		SessionID: "3f2a9c1e-0000-4000-8000-000000000001",
		Layer:     log.LayerWire,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Layer: log.LayerWire, Message: "boom"},
	}))

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 6",
		"WIRE:",
		"SERVICE:",
		"MESSAGE:",
		"STATE:",
		"ERROR:",
		"assets/lists",
		"Sessions: 1",
		"[3f2a9c1e]",
		"Transport: websocket",
		"Replies: 1 (avg 15.000ms, max 15.000ms)",
		"Assets: ready",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero events:\n%s", buf.String())
	}
}
