package model

import (
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
)

// KindProject is the model kind of Project.
const KindProject = "project"

// Project field names.
const (
	ProjectFieldScene              = "scene"
	ProjectFieldError              = "error"
	ProjectFieldName               = "name"
	ProjectFieldUI                 = "ui"
	ProjectFieldAssetsPath         = "assetsPath"
	ProjectFieldAllAssets          = "allAssets"
	ProjectFieldAllAssetDirs       = "allAssetDirs"
	ProjectFieldAllAssetsByName    = "allAssetsByName"
	ProjectFieldAllAssetDirsByName = "allAssetDirsByName"
	ProjectFieldImageAssets        = "imageAssets"
	ProjectFieldTextAssets         = "textAssets"
	ProjectFieldSoundAssets        = "soundAssets"
	ProjectFieldFontAssets         = "fontAssets"
	ProjectFieldAssetsStatus       = "assetsStatus"
)

// Default scene dimensions of a new project.
const (
	DefaultSceneWidth  = 320
	DefaultSceneHeight = 568
)

// Project is the root of the editor state.
//
// The asset catalogs are derived from assetsPath and are never persisted.
// A nil catalog means the assets are unknown; an empty one means the
// directory is valid but nothing has been classified yet.
type Project struct {
	*reactive.Model

	scene      *reactive.Cell[*Scene]
	err        *reactive.Cell[string]
	name       *reactive.Cell[string]
	ui         *reactive.Cell[*UiState]
	assetsPath *reactive.Cell[string]

	allAssets          *reactive.Cell[[]string]
	allAssetDirs       *reactive.Cell[[]string]
	allAssetsByName    *reactive.Cell[*NameIndex]
	allAssetDirsByName *reactive.Cell[*NameIndex]
	imageAssets        *reactive.Cell[[]AssetInfo]
	textAssets         *reactive.Cell[[]AssetInfo]
	soundAssets        *reactive.Cell[[]AssetInfo]
	fontAssets         *reactive.Cell[[]AssetInfo]
	assetsStatus       *reactive.Cell[AssetsStatus]
}

// NewProject creates an empty project. An empty id gets a fresh one.
func NewProject(rt *reactive.Runtime, id string) *Project {
	p := &Project{Model: reactive.NewModel(rt, KindProject, id)}
	p.scene = reactive.Define[*Scene](p.Model, ProjectFieldScene, nil, reactive.Persisted())
	p.err = reactive.Define(p.Model, ProjectFieldError, "")
	p.name = reactive.Define(p.Model, ProjectFieldName, "", reactive.Persisted())
	p.ui = reactive.Define[*UiState](p.Model, ProjectFieldUI, nil, reactive.Persisted())
	p.assetsPath = reactive.Define(p.Model, ProjectFieldAssetsPath, "", reactive.Persisted())

	p.allAssets = reactive.Define[[]string](p.Model, ProjectFieldAllAssets, nil)
	p.allAssetDirs = reactive.Define[[]string](p.Model, ProjectFieldAllAssetDirs, nil)
	p.allAssetsByName = reactive.Define[*NameIndex](p.Model, ProjectFieldAllAssetsByName, nil)
	p.allAssetDirsByName = reactive.Define[*NameIndex](p.Model, ProjectFieldAllAssetDirsByName, nil)
	p.imageAssets = reactive.Define[[]AssetInfo](p.Model, ProjectFieldImageAssets, nil)
	p.textAssets = reactive.Define[[]AssetInfo](p.Model, ProjectFieldTextAssets, nil)
	p.soundAssets = reactive.Define[[]AssetInfo](p.Model, ProjectFieldSoundAssets, nil)
	p.fontAssets = reactive.Define[[]AssetInfo](p.Model, ProjectFieldFontAssets, nil)
	p.assetsStatus = reactive.Define(p.Model, ProjectFieldAssetsStatus, AssetsUnknown)
	return p
}

// ReactiveModel returns the underlying model. It is safe on a nil receiver.
func (p *Project) ReactiveModel() *reactive.Model {
	if p == nil {
		return nil
	}
	return p.Model
}

// CreateWithName initializes a new project: a 320x568 scene called
// "scene" with empty data and a fresh UI state.
func (p *Project) CreateWithName(name string) {
	rt := p.Runtime()
	p.name.Set(name)

	scene := NewScene(rt, "scene")
	scene.SetName("scene")
	scene.SetData(map[string]any{})
	scene.SetWidth(DefaultSceneWidth)
	scene.SetHeight(DefaultSceneHeight)
	p.replaceScene(scene)

	p.ui.Set(NewUiState(rt, "ui"))
}

func (p *Project) replaceScene(scene *Scene) {
	if old := p.scene.Peek(); old != nil && old != scene {
		old.Dispose()
	}
	p.scene.Set(scene)
}

// Scene returns the scene (may be nil) and records the read.
func (p *Project) Scene() *Scene { return p.scene.Get() }

// SetScene replaces the scene. The previous scene is disposed.
func (p *Project) SetScene(s *Scene) { p.replaceScene(s) }

// ErrorMessage returns the last project error shown to the user.
func (p *Project) ErrorMessage() string { return p.err.Get() }

// SetErrorMessage records a project error shown to the user.
func (p *Project) SetErrorMessage(msg string) { p.err.Set(msg) }

// Name returns the project name.
func (p *Project) Name() string { return p.name.Get() }

// SetName sets the project name.
func (p *Project) SetName(name string) { p.name.Set(name) }

// UI returns the UI state (may be nil) and records the read.
func (p *Project) UI() *UiState { return p.ui.Get() }

// SetUI replaces the UI state.
func (p *Project) SetUI(ui *UiState) { p.ui.Set(ui) }

// AssetsPath returns the assets directory.
func (p *Project) AssetsPath() string { return p.assetsPath.Get() }

// SetAssetsPath sets the assets directory.
func (p *Project) SetAssetsPath(path string) { p.assetsPath.Set(path) }

// AllAssets returns every asset name.
func (p *Project) AllAssets() []string { return p.allAssets.Get() }

// AllAssetDirs returns every asset directory.
func (p *Project) AllAssetDirs() []string { return p.allAssetDirs.Get() }

// AllAssetsByName returns asset paths keyed by name.
func (p *Project) AllAssetsByName() *NameIndex { return p.allAssetsByName.Get() }

// AllAssetDirsByName returns asset directories keyed by name.
func (p *Project) AllAssetDirsByName() *NameIndex { return p.allAssetDirsByName.Get() }

// ImageAssets returns the image catalog.
func (p *Project) ImageAssets() []AssetInfo { return p.imageAssets.Get() }

// TextAssets returns the text catalog.
func (p *Project) TextAssets() []AssetInfo { return p.textAssets.Get() }

// SoundAssets returns the sound catalog.
func (p *Project) SoundAssets() []AssetInfo { return p.soundAssets.Get() }

// FontAssets returns the font catalog.
func (p *Project) FontAssets() []AssetInfo { return p.fontAssets.Get() }

// AssetsStatus returns the catalog state.
func (p *Project) AssetsStatus() AssetsStatus { return p.assetsStatus.Get() }

// Catalogs is the full set of derived asset fields.
type Catalogs struct {
	Images        []AssetInfo
	Texts         []AssetInfo
	Sounds        []AssetInfo
	Fonts         []AssetInfo
	All           []string
	AllDirs       []string
	AllByName     *NameIndex
	AllDirsByName *NameIndex
}

// EmptyCatalogs returns catalogs that are known and empty.
func EmptyCatalogs() Catalogs {
	return Catalogs{
		Images:        []AssetInfo{},
		Texts:         []AssetInfo{},
		Sounds:        []AssetInfo{},
		Fonts:         []AssetInfo{},
		All:           []string{},
		AllDirs:       []string{},
		AllByName:     NewNameIndex(),
		AllDirsByName: NewNameIndex(),
	}
}

// SetCatalogs writes all eight catalog fields and the status. The zero
// Catalogs value marks the assets unknown.
func (p *Project) SetCatalogs(c Catalogs, status AssetsStatus) {
	p.imageAssets.Set(c.Images)
	p.textAssets.Set(c.Texts)
	p.soundAssets.Set(c.Sounds)
	p.fontAssets.Set(c.Fonts)
	p.allAssets.Set(c.All)
	p.allAssetDirs.Set(c.AllDirs)
	p.allAssetsByName.Set(c.AllByName)
	p.allAssetDirsByName.Set(c.AllDirsByName)
	p.assetsStatus.Set(status)
}

// SetAssetsStatus updates the status alone.
func (p *Project) SetAssetsStatus(s AssetsStatus) { p.assetsStatus.Set(s) }

// RestoreField rebuilds the nested scene and UI models.
func (p *Project) RestoreField(name string, v any) (bool, error) {
	rt := p.Runtime()
	switch name {
	case ProjectFieldScene:
		rec, err := reactive.RecordFrom(v)
		if err != nil {
			return true, err
		}
		if rec == nil {
			p.replaceScene(nil)
			return true, nil
		}
		scene := NewScene(rt, rec.ID)
		if err := reactive.Restore(scene.Model, rec, scene); err != nil {
			return true, err
		}
		p.replaceScene(scene)
		return true, nil
	case ProjectFieldUI:
		rec, err := reactive.RecordFrom(v)
		if err != nil {
			return true, err
		}
		if rec == nil {
			p.ui.Set(nil)
			return true, nil
		}
		ui := NewUiState(rt, rec.ID)
		if err := reactive.Restore(ui.Model, rec, nil); err != nil {
			return true, err
		}
		p.ui.Set(ui)
		return true, nil
	default:
		return false, nil
	}
}

// Snapshot returns the persisted state of the project tree.
func (p *Project) Snapshot() *reactive.Record {
	return reactive.Snapshot(p.Model)
}

// Restore replaces the persisted state of the project tree.
func (p *Project) Restore(rec *reactive.Record) error {
	return reactive.Restore(p.Model, rec, p)
}
