package enginesim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

type peer struct {
	t     *testing.T
	side  *transport.Stream
	codec wire.Codec
}

func (p peer) send(env wire.Envelope) {
	p.t.Helper()
	data, err := p.codec.Encode(env)
	require.NoError(p.t, err)
	require.NoError(p.t, p.side.Send(data))
}

func (p peer) receive() wire.Envelope {
	p.t.Helper()
	frame, err := p.side.Receive()
	require.NoError(p.t, err)
	env, err := p.codec.Decode(frame)
	require.NoError(p.t, err)
	return env
}

func startEngine(t *testing.T, opts ...Option) (*Engine, peer, <-chan error) {
	t.Helper()
	editorSide, engineSide := transport.Pipe()
	e := New(engineSide, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = editorSide.Close()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("engine did not stop")
		}
	})
	return e, peer{t: t, side: editorSide, codec: wire.JSONCodec{}}, done
}

func TestEngineAnnouncesReady(t *testing.T) {
	_, p, _ := startEngine(t)

	env := p.receive()
	assert.Equal(t, wire.TypeEngineReady, env.Type)
	assert.False(t, env.Reply)
}

func TestEngineAnswersAssetsLists(t *testing.T) {
	e, p, _ := startEngine(t, WithoutReady())

	p.send(wire.Envelope{
		Type:  wire.TypeAssetsLists,
		Value: wire.AssetsListsRequest{List: []string{"hero.png", "sounds/jump.ogg"}},
		ID:    7,
	})

	reply := p.receive()
	assert.True(t, reply.Reply)
	assert.Equal(t, uint32(7), reply.ID)

	payload, err := wire.Decode(reply)
	require.NoError(t, err)
	resp, ok := payload.(wire.AssetsListsResponse)
	require.True(t, ok, "payload is %T", payload)
	require.Len(t, resp.Images, 1)
	assert.Equal(t, "hero", resp.Images[0].Name)
	assert.Equal(t, []string{"hero", "sounds/jump"}, resp.All)
	assert.Equal(t, 1, e.Requests())
}

func TestEngineIgnoresUnknownAndReplies(t *testing.T) {
	seen := make(chan wire.Envelope, 4)
	e, p, _ := startEngine(t, WithoutReady(), WithMessageHook(func(env wire.Envelope) { seen <- env }))

	p.send(wire.Envelope{Type: "custom/thing", Value: 1})
	p.send(wire.Envelope{Type: wire.TypeAssetsLists, Value: map[string]any{}, Reply: true})
	p.send(wire.Envelope{Type: wire.TypeAssetsLists, Value: wire.AssetsListsRequest{List: []string{}}})

	reply := p.receive()
	assert.True(t, reply.Reply)
	assert.Equal(t, 1, e.Requests())
	assert.Len(t, seen, 3)
}

func TestEnginePushes(t *testing.T) {
	e, p, _ := startEngine(t, WithoutReady())

	go func() {
		_ = e.SendPatch("scene.item.hero", map[string]any{"x": 12})
		_ = e.DeleteItem("hero")
	}()

	patch := p.receive()
	assert.Equal(t, "set/scene.item.hero", patch.Type)
	x, ok := wire.Field(patch.Value, "x")
	require.True(t, ok)
	assert.EqualValues(t, 12, x)

	del := p.receive()
	assert.Equal(t, wire.TypeSceneItemDelete, del.Type)
	name, _ := wire.Field(del.Value, "name")
	assert.Equal(t, "hero", name)
}

func TestEngineRunEndsOnPeerClose(t *testing.T) {
	_, p, done := startEngine(t, WithoutReady())

	require.NoError(t, p.side.Close())
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
