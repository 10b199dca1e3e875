package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/bridge"
	"github.com/ceramic-editor/editor-sync/pkg/keypath"
	"github.com/ceramic-editor/editor-sync/pkg/log"
	"github.com/ceramic-editor/editor-sync/pkg/model"
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// Keypath prefixes understood by the set/* listener.
const (
	PrefixUI        = "ui."
	PrefixSceneItem = "scene.item."
)

// Configuration errors.
var (
	ErrNoProject   = errors.New("project is required")
	ErrNoContext   = errors.New("engine context is required")
	ErrNoMessenger = errors.New("messenger is required")
	ErrNoFiles     = errors.New("file lister is required")
)

// Config configures a Synchronizer.
type Config struct {
	Project   *model.Project
	Context   *model.EngineContext
	Messenger Messenger
	Files     FileLister

	// Shell receives the assets path on every asset refresh. Optional.
	Shell HostShell

	// Chooser backs ChooseAssetsPath. Optional.
	Chooser DirectoryChooser

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger records asset and engine state changes. Optional.
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string
}

// Synchronizer keeps a project consistent with the engine.
type Synchronizer struct {
	project   *model.Project
	context   *model.EngineContext
	messenger Messenger
	files     FileLister
	shell     HostShell
	chooser   DirectoryChooser
	logger    *slog.Logger
	protoLog  log.Logger
	sessionID string

	assets     *reactive.Autorun
	listeners  []*bridge.Subscription
	generation uint64
	requests   int
	closed     bool
}

// New registers the listeners and starts the asset autorun, which runs
// once immediately. It must be called on the event loop.
func New(cfg Config) (*Synchronizer, error) {
	switch {
	case cfg.Project == nil:
		return nil, ErrNoProject
	case cfg.Context == nil:
		return nil, ErrNoContext
	case cfg.Messenger == nil:
		return nil, ErrNoMessenger
	case cfg.Files == nil:
		return nil, ErrNoFiles
	}

	s := &Synchronizer{
		project:   cfg.Project,
		context:   cfg.Context,
		messenger: cfg.Messenger,
		files:     cfg.Files,
		shell:     cfg.Shell,
		chooser:   cfg.Chooser,
		logger:    cfg.Logger,
		protoLog:  log.OrNoop(cfg.ProtocolLogger),
		sessionID: cfg.SessionID,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.listeners = append(s.listeners,
		s.messenger.Listen(wire.PatternSet, s.handleSet),
		s.messenger.Listen(wire.TypeSceneItemDelete, s.handleSceneItemDelete),
		s.messenger.Listen(wire.TypeEngineReady, s.handleEngineReady),
	)

	rt := s.project.Runtime()
	s.assets = rt.Autorun("project.assets", s.refreshAssets)
	return s, nil
}

// Project returns the synchronized project.
func (s *Synchronizer) Project() *model.Project {
	return s.project
}

// Context returns the engine context.
func (s *Synchronizer) Context() *model.EngineContext {
	return s.context
}

// Requests returns the number of assets/lists requests sent so far.
func (s *Synchronizer) Requests() int {
	return s.requests
}

// Close stops the asset autorun and removes the listeners. Replies to
// requests still in flight are ignored.
func (s *Synchronizer) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	s.assets.Dispose()
	for _, sub := range s.listeners {
		sub.Remove()
	}
	s.listeners = nil
}

// ChooseAssetsPath asks the chooser for a directory and makes it the
// assets path. It reports the chosen path and whether one was chosen.
func (s *Synchronizer) ChooseAssetsPath() (string, bool) {
	if s.chooser == nil {
		return "", false
	}
	path, ok := s.chooser.ChooseDirectory()
	if !ok || path == "" {
		return "", false
	}
	s.project.SetAssetsPath(path)
	return path, true
}

// SetEngineReady records engine readiness, e.g. false after the
// connection was lost.
func (s *Synchronizer) SetEngineReady(ready bool) {
	var was bool
	s.project.Runtime().Untracked(func() { was = s.context.EngineReady() })
	s.context.SetEngineReady(ready)
	if was != ready {
		s.logState(log.StateEntityEngine, readyState(was), readyState(ready), "")
	}
}

func readyState(ready bool) string {
	if ready {
		return "ready"
	}
	return "not_ready"
}

// refreshAssets is the asset autorun. Its read-set is assetsPath plus,
// once the path is a directory, the engine readiness.
func (s *Synchronizer) refreshAssets() {
	p := s.project
	path := p.AssetsPath()

	s.generation++
	gen := s.generation

	if s.shell != nil {
		s.shell.SetAssetsPath(path)
	}

	if path == "" || !s.files.IsDir(path) {
		s.setCatalogs(model.Catalogs{}, model.AssetsUnknown, "no assets directory")
		return
	}

	if !s.context.EngineReady() {
		s.setCatalogs(model.EmptyCatalogs(), model.AssetsEmpty, "engine not ready")
		return
	}

	list, err := s.files.FlatDirectory(path)
	if err != nil {
		s.logger.Warn("listing assets failed", slog.String("path", path), slog.Any("error", err))
		s.setCatalogs(model.Catalogs{}, model.AssetsUnknown, err.Error())
		return
	}

	sentAt := time.Now()
	s.setStatus(model.AssetsPending, "")
	err = s.messenger.Send(wire.NewEnvelope(wire.AssetsListsRequest{List: list}), func(reply wire.Envelope) {
		s.applyAssets(gen, reply, time.Since(sentAt))
	})
	if err != nil {
		s.logger.Warn("requesting asset lists failed", slog.String("path", path), slog.Any("error", err))
		s.setStatus(model.AssetsEmpty, err.Error())
		return
	}
	s.requests++
	s.logger.Debug("requested asset lists", slog.String("path", path), slog.Int("files", len(list)))
}

func (s *Synchronizer) applyAssets(gen uint64, reply wire.Envelope, latency time.Duration) {
	if gen != s.generation {
		s.logger.Debug("ignoring stale asset lists reply")
		return
	}

	payload, err := wire.Decode(reply)
	if err != nil {
		s.logger.Warn("invalid asset lists reply", slog.Any("error", err))
		s.setStatus(model.AssetsEmpty, err.Error())
		return
	}
	resp, ok := payload.(wire.AssetsListsResponse)
	if !ok {
		s.logger.Warn("unexpected asset lists reply", slog.String("payload", fmt.Sprintf("%T", payload)))
		s.setStatus(model.AssetsEmpty, "unexpected reply")
		return
	}

	c, err := catalogsFrom(resp)
	if err != nil {
		s.logger.Warn("invalid asset lists reply", slog.Any("error", err))
		s.setStatus(model.AssetsEmpty, err.Error())
		return
	}
	s.setCatalogs(c, model.AssetsLoaded, "")
	s.logger.Debug("asset lists loaded",
		slog.Int("all", len(c.All)),
		slog.Duration("latency", latency),
	)
}

func catalogsFrom(resp wire.AssetsListsResponse) (model.Catalogs, error) {
	byName, err := nameIndex(resp.AllByName)
	if err != nil {
		return model.Catalogs{}, fmt.Errorf("allByName: %w", err)
	}
	dirsByName, err := nameIndex(resp.AllDirsByName)
	if err != nil {
		return model.Catalogs{}, fmt.Errorf("allDirsByName: %w", err)
	}
	return model.Catalogs{
		Images:        infos(resp.Images),
		Texts:         infos(resp.Texts),
		Sounds:        infos(resp.Sounds),
		Fonts:         infos(resp.Fonts),
		All:           strs(resp.All),
		AllDirs:       strs(resp.AllDirs),
		AllByName:     byName,
		AllDirsByName: dirsByName,
	}, nil
}

func nameIndex(om *wire.OrderedMap) (*model.NameIndex, error) {
	if om == nil {
		return model.NewNameIndex(), nil
	}
	return model.NameIndexFrom(om)
}

func infos(l []wire.AssetInfo) []model.AssetInfo {
	if l == nil {
		return []model.AssetInfo{}
	}
	return l
}

func strs(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func (s *Synchronizer) setCatalogs(c model.Catalogs, status model.AssetsStatus, reason string) {
	old := s.currentStatus()
	s.project.SetCatalogs(c, status)
	if old != status {
		s.logState(log.StateEntityAssets, old.String(), status.String(), reason)
	}
}

func (s *Synchronizer) setStatus(status model.AssetsStatus, reason string) {
	old := s.currentStatus()
	s.project.SetAssetsStatus(status)
	if old != status {
		s.logState(log.StateEntityAssets, old.String(), status.String(), reason)
	}
}

func (s *Synchronizer) currentStatus() model.AssetsStatus {
	var status model.AssetsStatus
	s.project.Runtime().Untracked(func() { status = s.project.AssetsStatus() })
	return status
}

// handleSet applies "set/<keypath>" patches.
func (s *Synchronizer) handleSet(env wire.Envelope) {
	payload, err := wire.Decode(env)
	if err != nil {
		s.logger.Warn("invalid patch", slog.String("type", env.Type), slog.Any("error", err))
		return
	}
	patch, ok := payload.(wire.SetPatch)
	if !ok {
		return
	}

	switch {
	case strings.HasPrefix(patch.Keypath, PrefixUI):
		s.applyUIPatch(strings.TrimPrefix(patch.Keypath, PrefixUI), patch.Value)
	case strings.HasPrefix(patch.Keypath, PrefixSceneItem):
		s.applyItemPatch(strings.TrimPrefix(patch.Keypath, PrefixSceneItem), patch.Value)
	default:
		s.logger.Debug("ignoring patch", slog.String("keypath", patch.Keypath))
	}
}

func (s *Synchronizer) applyUIPatch(path string, value any) {
	ui := s.project.UI()
	if ui == nil {
		s.logger.Debug("patch without ui state", slog.String("keypath", path))
		return
	}
	s.set(ui, path, value)
}

// applyItemPatch writes every field of value, in payload order, to the
// scene item called name.
func (s *Synchronizer) applyItemPatch(name string, value any) {
	scene := s.project.Scene()
	if scene == nil {
		s.logger.Debug("patch without scene", slog.String("item", name))
		return
	}
	item, ok := scene.Item(name)
	if !ok {
		s.logger.Debug("patch for unknown item", slog.String("item", name))
		return
	}
	keys, values, ok := wire.Entries(value)
	if !ok {
		s.logger.Warn("scene item patch is not an object",
			slog.String("item", name),
			slog.String("value", fmt.Sprintf("%T", value)),
		)
		return
	}
	for i, k := range keys {
		s.set(item, k, values[i])
	}
}

func (s *Synchronizer) set(root any, path string, value any) {
	err := keypath.Set(root, path, value)
	switch {
	case err == nil:
	case errors.Is(err, keypath.ErrUnresolved):
		s.logger.Debug("patch does not resolve", slog.String("keypath", path))
	default:
		s.logger.Warn("patch rejected", slog.String("keypath", path), slog.Any("error", err))
	}
}

// handleSceneItemDelete removes the named item and clears a selection
// pointing at it.
func (s *Synchronizer) handleSceneItemDelete(env wire.Envelope) {
	payload, err := wire.Decode(env)
	if err != nil {
		s.logger.Warn("invalid delete", slog.Any("error", err))
		return
	}
	del, ok := payload.(wire.SceneItemDelete)
	if !ok {
		return
	}

	scene := s.project.Scene()
	if scene == nil {
		s.logger.Debug("delete without scene", slog.String("item", del.Name))
		return
	}
	item, ok := scene.Item(del.Name)
	if !ok {
		s.logger.Debug("delete for unknown item", slog.String("item", del.Name))
		return
	}

	if ui := s.project.UI(); ui != nil && ui.SelectedItemName() == del.Name {
		ui.SetSelectedItemName("")
	}
	scene.Remove(item)
}

func (s *Synchronizer) handleEngineReady(wire.Envelope) {
	s.SetEngineReady(true)
}

func (s *Synchronizer) logState(entity log.StateEntity, oldState, newState, reason string) {
	s.protoLog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Layer:     log.LayerService,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}
