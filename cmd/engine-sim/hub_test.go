package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramic-editor/editor-sync/internal/enginesim"
	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

func receive(t *testing.T, ws *transport.WebSocket) wire.Envelope {
	t.Helper()
	frame, err := ws.Receive()
	require.NoError(t, err)
	env, err := wire.JSONCodec{}.Decode(frame)
	require.NoError(t, err)
	return env
}

func TestHubServesEditors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHub(ctx, wire.JSONCodec{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	ws, err := transport.DialWebSocket(ctx, url)
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, wire.TypeEngineReady, receive(t, ws).Type)
	require.Eventually(t, func() bool { return len(h.clients()) == 1 }, time.Second, 10*time.Millisecond)

	data, err := wire.JSONCodec{}.Encode(wire.Envelope{
		Type:  wire.TypeAssetsLists,
		Value: wire.AssetsListsRequest{List: []string{"hero.png"}},
	})
	require.NoError(t, err)
	require.NoError(t, ws.Send(data))

	reply := receive(t, ws)
	assert.True(t, reply.Reply)
	all, _ := wire.Field(reply.Value, "all")
	assert.Equal(t, []any{"hero"}, all)

	n, err := h.each(func(e *enginesim.Engine) error { return e.DeleteItem("hero") })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, wire.TypeSceneItemDelete, receive(t, ws).Type)

	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return len(h.clients()) == 0 }, time.Second, 10*time.Millisecond)
}

func TestShellExecWithoutEditors(t *testing.T) {
	out := &bytes.Buffer{}
	s := &shell{hub: newHub(context.Background(), wire.JSONCodec{}, slog.Default()), out: out}

	quit, err := s.exec(`set scene.item.hero {"x": 1}`)
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, "Sent to 0 editor(s)\n", out.String())

	out.Reset()
	_, err = s.exec("clients")
	require.NoError(t, err)
	assert.Equal(t, "No editors connected\n", out.String())

	_, err = s.exec("set only-keypath")
	assert.Error(t, err)
	_, err = s.exec("bogus")
	assert.Error(t, err)

	quit, err = s.exec("quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}
