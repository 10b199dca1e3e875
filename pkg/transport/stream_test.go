package transport

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeRoundTrip(t *testing.T) {
	for _, framing := range []Framing{FramingLines, FramingLength} {
		t.Run(framing.String(), func(t *testing.T) {
			a, b := Pipe(WithFraming(framing))
			defer a.Close()
			defer b.Close()

			done := make(chan error, 1)
			go func() {
				done <- a.Send([]byte(`{"type":"engine/ready"}`))
			}()

			frame, err := b.Receive()
			require.NoError(t, err)
			assert.Equal(t, `{"type":"engine/ready"}`, string(frame))
			require.NoError(t, <-done)
			assert.Equal(t, "pipe", a.Name())
		})
	}
}

func TestStreamClose(t *testing.T) {
	a, b := Pipe()

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "second close is a no-op")

	assert.ErrorIs(t, a.Send([]byte("x")), ErrClosed)
	_, err := a.Receive()
	assert.ErrorIs(t, err, ErrClosed)

	// The peer sees the end of the stream.
	_, err = b.Receive()
	assert.ErrorIs(t, err, io.EOF)
	b.Close()
}

func TestStreamCloseUnblocksReceive(t *testing.T) {
	a, b := Pipe()
	defer b.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := a.Receive()
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	a.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after Close")
	}
}

func TestProtocolLoggerOption(t *testing.T) {
	rec := &recordingLogger{}
	a, b := Pipe(WithProtocolLogger(rec, "s-1"))
	defer a.Close()
	defer b.Close()

	go func() { _ = a.Send([]byte("hello")) }()
	_, err := b.Receive()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.events) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "s-1", rec.events[0].SessionID)
}

func TestStartProcessRejectsEmptyCommand(t *testing.T) {
	_, err := StartProcess(t.Context(), ProcessConfig{})
	assert.Error(t, err)
}
