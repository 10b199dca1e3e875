package service

import (
	"errors"
	"testing"

	"github.com/ceramic-editor/editor-sync/pkg/bridge"
	"github.com/ceramic-editor/editor-sync/pkg/files"
	"github.com/ceramic-editor/editor-sync/pkg/model"
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/ceramic-editor/editor-sync/pkg/service/mocks"
	transportmocks "github.com/ceramic-editor/editor-sync/pkg/transport/mocks"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t       *testing.T
	rt      *reactive.Runtime
	project *model.Project
	context *model.EngineContext
	bridge  *bridge.Bridge
	sync    *Synchronizer
	frames  [][]byte
	sendErr error
}

func assetsFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range []string{
		"/assets/hero.png",
		"/assets/fonts/title.fnt",
		"/assets/sounds/jump.ogg",
	} {
		require.NoError(t, afero.WriteFile(fsys, f, []byte("x"), 0o644))
	}
	return fsys
}

func newHarness(t *testing.T, lister FileLister, mutate func(*Config)) *harness {
	t.Helper()
	h := &harness{t: t, rt: reactive.NewRuntime()}
	h.project = model.NewProject(h.rt, "")
	h.project.CreateWithName("demo")
	h.context = model.NewEngineContext(h.rt)

	tr := transportmocks.NewMockTransport(t)
	tr.EXPECT().Send(mock.Anything).RunAndReturn(func(frame []byte) error {
		if h.sendErr != nil {
			return h.sendErr
		}
		h.frames = append(h.frames, frame)
		return nil
	}).Maybe()
	h.bridge = bridge.New(tr)

	if lister == nil {
		lister = files.NewLister(assetsFs(t))
	}
	cfg := Config{
		Project:   h.project,
		Context:   h.context,
		Messenger: h.bridge,
		Files:     lister,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	h.sync = s
	return h
}

// inbound decodes a JSON envelope and dispatches it like the read loop.
func (h *harness) inbound(raw string) {
	h.t.Helper()
	env, err := wire.JSONCodec{}.Decode([]byte(raw))
	require.NoError(h.t, err)
	h.bridge.Dispatch(env)
}

func (h *harness) sent() []wire.Envelope {
	h.t.Helper()
	out := make([]wire.Envelope, 0, len(h.frames))
	for _, f := range h.frames {
		env, err := wire.JSONCodec{}.Decode(f)
		require.NoError(h.t, err)
		out = append(out, env)
	}
	return out
}

const assetsReply = `{"type":"assets/lists","reply":true,"value":{
	"images":[{"name":"hero","constName":"HERO","paths":["hero.png"]}],
	"texts":[],
	"sounds":[{"name":"sounds:jump","constName":"SOUNDS__JUMP","paths":["sounds/jump.ogg"]}],
	"fonts":[{"name":"fonts:title","constName":"FONTS__TITLE","paths":["fonts/title.fnt"]}],
	"all":["hero","sounds:jump","fonts:title"],
	"allDirs":["sounds","fonts"],
	"allByName":{"sounds:jump":["sounds/jump.ogg"],"hero":["hero.png"],"fonts:title":["fonts/title.fnt"]},
	"allDirsByName":{"sounds":["sounds"],"fonts":["fonts"]}
}}`

func TestAssetPathTransitions(t *testing.T) {
	var shellPaths []string
	shell := mocks.NewMockHostShell(t)
	shell.EXPECT().SetAssetsPath(mock.Anything).Run(func(path string) {
		shellPaths = append(shellPaths, path)
	}).Return()

	h := newHarness(t, nil, func(c *Config) { c.Shell = shell })
	p := h.project

	// No path: unknown.
	assert.Equal(t, model.AssetsUnknown, p.AssetsStatus())
	assert.Nil(t, p.ImageAssets())
	assert.Nil(t, p.AllAssets())
	assert.Nil(t, p.AllAssetsByName())

	// Valid path, engine not ready: known empty.
	p.SetAssetsPath("/assets")
	assert.Equal(t, model.AssetsEmpty, p.AssetsStatus())
	assert.NotNil(t, p.ImageAssets())
	assert.Empty(t, p.ImageAssets())
	assert.NotNil(t, p.AllAssetDirs())
	assert.Equal(t, 0, p.AllAssetsByName().Len())
	assert.Empty(t, h.frames)

	// Engine ready: exactly one request with the flat listing.
	h.inbound(`{"type":"engine/ready"}`)
	require.Len(t, h.frames, 1)
	req := h.sent()[0]
	assert.Equal(t, wire.TypeAssetsLists, req.Type)
	list, ok := wire.Field(req.Value, "list")
	require.True(t, ok)
	assert.Equal(t, []any{"fonts/title.fnt", "hero.png", "sounds/jump.ogg"}, list)
	assert.Equal(t, model.AssetsPending, p.AssetsStatus())
	assert.Equal(t, 1, h.sync.Requests())

	h.inbound(assetsReply)
	assert.Equal(t, model.AssetsLoaded, p.AssetsStatus())
	assert.Equal(t, []model.AssetInfo{{Name: "hero", ConstName: "HERO", Paths: []string{"hero.png"}}}, p.ImageAssets())
	assert.NotNil(t, p.TextAssets())
	assert.Empty(t, p.TextAssets())
	assert.Len(t, p.SoundAssets(), 1)
	assert.Equal(t, "FONTS__TITLE", p.FontAssets()[0].ConstName)
	assert.Equal(t, []string{"hero", "sounds:jump", "fonts:title"}, p.AllAssets())
	assert.Equal(t, []string{"sounds", "fonts"}, p.AllAssetDirs())
	assert.Equal(t, []string{"sounds:jump", "hero", "fonts:title"}, p.AllAssetsByName().Names())
	paths, ok := p.AllAssetsByName().Get("hero")
	require.True(t, ok)
	assert.Equal(t, []string{"hero.png"}, paths)
	assert.Equal(t, []string{"sounds", "fonts"}, p.AllAssetDirsByName().Names())

	assert.Len(t, h.frames, 1, "reply must not trigger another request")
	assert.Equal(t, []string{"", "/assets", "/assets"}, shellPaths)
}

func TestInvalidPathStaysUnknown(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.inbound(`{"type":"engine/ready"}`)

	h.project.SetAssetsPath("/missing")
	assert.Equal(t, model.AssetsUnknown, h.project.AssetsStatus())
	assert.Nil(t, h.project.FontAssets())
	assert.Empty(t, h.frames)

	h.project.SetAssetsPath("/assets/hero.png")
	assert.Equal(t, model.AssetsUnknown, h.project.AssetsStatus())
	assert.Empty(t, h.frames)
}

func TestListingFailureIsUnknown(t *testing.T) {
	lister := mocks.NewMockFileLister(t)
	lister.EXPECT().IsDir("/assets").Return(true)
	lister.EXPECT().FlatDirectory("/assets").Return(nil, errors.New("permission denied"))

	h := newHarness(t, lister, nil)
	h.context.SetEngineReady(true)
	h.project.SetAssetsPath("/assets")

	assert.Equal(t, model.AssetsUnknown, h.project.AssetsStatus())
	assert.Nil(t, h.project.AllAssets())
	assert.Empty(t, h.frames)
}

func TestAutorunIgnoresReadinessWithoutPath(t *testing.T) {
	lister := mocks.NewMockFileLister(t)
	h := newHarness(t, lister, nil)

	// assetsPath is empty, so readiness is not in the read-set.
	h.context.SetEngineReady(true)
	h.context.SetEngineReady(false)
	assert.Equal(t, model.AssetsUnknown, h.project.AssetsStatus())
	lister.AssertNotCalled(t, "IsDir", mock.Anything)
}

func TestStaleReplyIgnored(t *testing.T) {
	fsys := assetsFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/other/a.png", []byte("x"), 0o644))
	h := newHarness(t, files.NewLister(fsys), nil)
	h.context.SetEngineReady(true)

	h.project.SetAssetsPath("/assets")
	h.project.SetAssetsPath("/other")
	require.Len(t, h.frames, 2)

	// First reply pairs with the first request, which is outdated.
	h.inbound(`{"type":"assets/lists","reply":true,"value":{"all":["old"]}}`)
	assert.Equal(t, model.AssetsPending, h.project.AssetsStatus())
	assert.Empty(t, h.project.AllAssets())

	h.inbound(`{"type":"assets/lists","reply":true,"value":{"all":["a"]}}`)
	assert.Equal(t, model.AssetsLoaded, h.project.AssetsStatus())
	assert.Equal(t, []string{"a"}, h.project.AllAssets())
	assert.NotNil(t, h.project.ImageAssets())
	assert.Equal(t, 0, h.project.AllAssetsByName().Len())
}

func TestSendFailureLeavesCatalogsEmpty(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.sendErr = errors.New("engine gone")
	h.context.SetEngineReady(true)
	h.project.SetAssetsPath("/assets")

	assert.Equal(t, model.AssetsEmpty, h.project.AssetsStatus())
	assert.Equal(t, 0, h.sync.Requests())
	assert.Equal(t, 0, h.bridge.Pending())
}

func TestUIPatch(t *testing.T) {
	h := newHarness(t, nil, nil)
	ui := h.project.UI()
	ui.SetSelectedTab("assets")

	var selected []string
	h.rt.Autorun("selected", func() { selected = append(selected, ui.SelectedItemName()) })
	zoomRuns := 0
	h.rt.Autorun("zoom", func() {
		zoomRuns++
		_ = ui.Zoom()
	})

	h.inbound(`{"type":"set/ui.selectedItemName","value":"B"}`)

	assert.Equal(t, "B", ui.SelectedItemName())
	assert.Equal(t, []string{"", "B"}, selected)
	assert.Equal(t, 1, zoomRuns)
	assert.Equal(t, 1.0, ui.Zoom())
	assert.Equal(t, "assets", ui.SelectedTab())

	// Coerced, rejected and unresolved patches.
	h.inbound(`{"type":"set/ui.zoom","value":2}`)
	assert.Equal(t, 2.0, ui.Zoom())
	h.inbound(`{"type":"set/ui.zoom","value":"big"}`)
	assert.Equal(t, 2.0, ui.Zoom())
	h.inbound(`{"type":"set/ui.nothing.here","value":1}`)
	h.inbound(`{"type":"set/unknown.path","value":1}`)
	assert.Equal(t, []string{"", "B"}, selected)
}

func TestUIPatchWithoutUI(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.project.SetUI(nil)
	h.inbound(`{"type":"set/ui.selectedItemName","value":"B"}`)
}

func TestSceneItemPatch(t *testing.T) {
	h := newHarness(t, nil, nil)
	scene := h.project.Scene()
	hero := scene.AddItem("hero", "ceramic.Quad")
	other := scene.AddItem("other", "ceramic.Quad")

	var order []string
	h.rt.Autorun("x", func() { _ = hero.X(); order = append(order, "x") })
	h.rt.Autorun("visible", func() { _ = hero.Visible(); order = append(order, "visible") })
	order = nil

	h.inbound(`{"type":"set/scene.item.hero","value":{"visible":false,"x":10,"color":255,"props":{"texture":"hero"}}}`)

	assert.Equal(t, 10.0, hero.X())
	assert.False(t, hero.Visible())
	assert.Equal(t, 255, hero.Color())
	assert.Equal(t, map[string]any{"texture": "hero"}, hero.Props())
	assert.Equal(t, []string{"visible", "x"}, order, "fields apply in payload order")
	assert.Equal(t, 0.0, other.X())

	// Unknown item and non-object payloads are ignored.
	h.inbound(`{"type":"set/scene.item.ghost","value":{"x":1}}`)
	h.inbound(`{"type":"set/scene.item.hero","value":3}`)
	assert.Equal(t, 10.0, hero.X())

	// A bad field does not stop the remaining ones.
	h.inbound(`{"type":"set/scene.item.hero","value":{"x":"wide","y":4}}`)
	assert.Equal(t, 10.0, hero.X())
	assert.Equal(t, 4.0, hero.Y())
}

func TestSceneItemPatchWithoutScene(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.project.SetScene(nil)
	h.inbound(`{"type":"set/scene.item.hero","value":{"x":1}}`)
	h.inbound(`{"type":"scene-item/delete","value":{"name":"hero"}}`)
}

func TestSceneItemDelete(t *testing.T) {
	h := newHarness(t, nil, nil)
	scene := h.project.Scene()
	ui := h.project.UI()
	a := scene.AddItem("A", "")
	scene.AddItem("B", "")
	ui.SetSelectedItemName("A")

	// Deleting an unselected item keeps the selection.
	h.inbound(`{"type":"scene-item/delete","value":{"name":"B"}}`)
	require.Len(t, scene.Items(), 1)
	assert.Equal(t, "A", ui.SelectedItemName())

	// Unknown names change nothing.
	h.inbound(`{"type":"scene-item/delete","value":{"name":"Z"}}`)
	assert.Len(t, scene.Items(), 1)
	assert.Equal(t, "A", ui.SelectedItemName())

	h.inbound(`{"type":"scene-item/delete","value":{"name":"A"}}`)
	assert.Empty(t, scene.Items())
	assert.Equal(t, "", ui.SelectedItemName())
	assert.True(t, a.Disposed())

	// Malformed payloads are dropped.
	h.inbound(`{"type":"scene-item/delete","value":{"name":7}}`)
}

func TestDuplicateNamesPatchAndDeleteSameItem(t *testing.T) {
	h := newHarness(t, nil, nil)
	scene := h.project.Scene()
	first := scene.AddItem("A", "")
	second := scene.AddItem("A", "")

	h.inbound(`{"type":"set/scene.item.A","value":{"x":7}}`)
	patched := second
	if first.X() == 7 {
		patched = first
	}
	require.Equal(t, 7.0, patched.X())

	h.inbound(`{"type":"scene-item/delete","value":{"name":"A"}}`)

	items := scene.Items()
	require.Len(t, items, 1)
	assert.NotSame(t, patched, items[0], "delete removes the item the patch targeted")
	assert.True(t, patched.Disposed())
	assert.False(t, items[0].Disposed())
	if items[0].X() != 0 {
		t.Errorf("remaining item x = %v, want 0", items[0].X())
	}
}

func TestDeleteSelectedKeepsOthers(t *testing.T) {
	h := newHarness(t, nil, nil)
	scene := h.project.Scene()
	scene.AddItem("A", "")
	b := scene.AddItem("B", "")
	h.project.UI().SetSelectedItemName("A")

	h.inbound(`{"type":"scene-item/delete","value":{"name":"A"}}`)

	items := scene.Items()
	require.Len(t, items, 1)
	assert.Same(t, b, items[0])
	assert.Equal(t, "", h.project.UI().SelectedItemName())
}

func TestChooseAssetsPath(t *testing.T) {
	chooser := mocks.NewMockDirectoryChooser(t)
	chooser.EXPECT().ChooseDirectory().Return("", false).Once()
	chooser.EXPECT().ChooseDirectory().Return("/assets", true).Once()

	h := newHarness(t, nil, func(c *Config) { c.Chooser = chooser })

	_, ok := h.sync.ChooseAssetsPath()
	assert.False(t, ok)
	assert.Equal(t, "", h.project.AssetsPath())

	path, ok := h.sync.ChooseAssetsPath()
	assert.True(t, ok)
	assert.Equal(t, "/assets", path)
	assert.Equal(t, "/assets", h.project.AssetsPath())
	assert.Equal(t, model.AssetsEmpty, h.project.AssetsStatus())
}

func TestChooseAssetsPathWithoutChooser(t *testing.T) {
	h := newHarness(t, nil, nil)
	_, ok := h.sync.ChooseAssetsPath()
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	h := newHarness(t, nil, nil)
	assert.Equal(t, 3, h.bridge.Listeners())

	h.context.SetEngineReady(true)
	h.project.SetAssetsPath("/assets")
	require.Len(t, h.frames, 1)

	h.sync.Close()
	h.sync.Close()
	assert.Equal(t, 0, h.bridge.Listeners())

	// In-flight reply is ignored and nothing new is sent.
	h.inbound(assetsReply)
	assert.Equal(t, model.AssetsPending, h.project.AssetsStatus())
	h.project.SetAssetsPath("/other")
	assert.Len(t, h.frames, 1)
}

func TestEngineReadyListener(t *testing.T) {
	h := newHarness(t, nil, nil)
	assert.False(t, h.context.EngineReady())
	h.inbound(`{"type":"engine/ready"}`)
	assert.True(t, h.context.EngineReady())

	h.sync.SetEngineReady(false)
	assert.False(t, h.context.EngineReady())
}

func TestNewValidatesConfig(t *testing.T) {
	rt := reactive.NewRuntime()
	p := model.NewProject(rt, "")
	ctx := model.NewEngineContext(rt)
	b := bridge.New(transportmocks.NewMockTransport(t))
	l := files.NewLister(afero.NewMemMapFs())

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"project", Config{Context: ctx, Messenger: b, Files: l}, ErrNoProject},
		{"context", Config{Project: p, Messenger: b, Files: l}, ErrNoContext},
		{"messenger", Config{Project: p, Context: ctx, Files: l}, ErrNoMessenger},
		{"files", Config{Project: p, Context: ctx, Messenger: b}, ErrNoFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
