// Package model defines the editor's observable state tree.
//
//	Project
//	├── scene: Scene
//	│   └── items: ItemList of SceneItem
//	├── ui: UiState
//	└── asset catalogs (derived from assetsPath by the synchronizer)
//
// EngineContext holds process-wide state that is never persisted, such as
// whether the engine has announced readiness.
//
// Scene, SceneItem and UiState are generated from schema/*.yaml by
// cmd/modelgen. Every model embeds *reactive.Model, so keypaths resolve
// against their cells by field name ("ui.selectedItemName",
// "scene.items.hero.x").
package model

//go:generate go run ../../cmd/modelgen -schema schema -output .
