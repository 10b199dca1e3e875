package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsServer starts an HTTP server upgrading every request and handing the
// transport to handle.
func wsServer(t *testing.T, handle func(ws *WebSocket), opts ...Option) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := AcceptWebSocket(w, r, opts...)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer ws.Close()
		handle(ws)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketEcho(t *testing.T) {
	url := wsServer(t, func(ws *WebSocket) {
		for {
			frame, err := ws.Receive()
			if err != nil {
				return
			}
			if err := ws.Send(frame); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := DialWebSocket(ctx, url)
	require.NoError(t, err)
	defer ws.Close()

	assert.NotEmpty(t, ws.RemoteAddr())

	for _, msg := range []string{`{"type":"engine/ready"}`, `{"type":"set/ui.zoom","value":2}`} {
		require.NoError(t, ws.Send([]byte(msg)))
		got, err := ws.Receive()
		require.NoError(t, err)
		assert.Equal(t, msg, string(got))
	}

	assert.ErrorIs(t, ws.Send(nil), ErrMessageEmpty)
}

func TestWebSocketNormalCloseIsEOF(t *testing.T) {
	received := make(chan error, 1)
	url := wsServer(t, func(ws *WebSocket) {
		_, err := ws.Receive()
		received <- err
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := DialWebSocket(ctx, url)
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	select {
	case err := <-received:
		assert.True(t, errors.Is(err, io.EOF), "expected io.EOF after normal close, got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not see the close")
	}
	assert.ErrorIs(t, ws.Send([]byte("late")), ErrClosed)
}

func TestWebSocketPeerClose(t *testing.T) {
	url := wsServer(t, func(ws *WebSocket) {})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := DialWebSocket(ctx, url)
	require.NoError(t, err)
	defer ws.Close()

	_, err = ws.Receive()
	assert.True(t, errors.Is(err, io.EOF), "got %v", err)
}

func TestWebSocketLocalClose(t *testing.T) {
	block := make(chan struct{})
	url := wsServer(t, func(ws *WebSocket) { <-block })
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := DialWebSocket(ctx, url)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := ws.Receive()
		done <- err
	}()

	require.NoError(t, ws.Close())
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not return after Close")
	}
	assert.ErrorIs(t, ws.Send([]byte("x")), ErrClosed)
}

func TestWebSocketKeepAlivePongs(t *testing.T) {
	// Reading on the server side answers pings.
	url := wsServer(t, func(ws *WebSocket) {
		for {
			if _, err := ws.Receive(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := DialWebSocket(ctx, url, WithKeepAlive(KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    200 * time.Millisecond,
		MaxMissedPongs: 2,
	}))
	require.NoError(t, err)
	defer ws.Close()

	go func() {
		for {
			if _, err := ws.Receive(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool {
		return !ws.keepAlive.Stats().LastPongTime.IsZero()
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, ws.keepAlive.IsRunning())
}

func TestWebSocketKeepAliveTimeout(t *testing.T) {
	// Never reading means never answering pings.
	block := make(chan struct{})
	url := wsServer(t, func(ws *WebSocket) { <-block })
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := DialWebSocket(ctx, url, WithKeepAlive(KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    10 * time.Millisecond,
		MaxMissedPongs: 2,
	}))
	require.NoError(t, err)
	defer ws.Close()

	_, err = ws.Receive()
	assert.ErrorIs(t, err, ErrKeepAliveTimeout)
}
