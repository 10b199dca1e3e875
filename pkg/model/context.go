package model

import "github.com/ceramic-editor/editor-sync/pkg/reactive"

// KindEngineContext is the model kind of EngineContext.
const KindEngineContext = "context"

// EngineContext is runtime state shared by all projects. Nothing in it is
// persisted.
type EngineContext struct {
	*reactive.Model

	engineReady *reactive.Cell[bool]
}

// NewEngineContext returns a context with the engine not ready.
func NewEngineContext(rt *reactive.Runtime) *EngineContext {
	c := &EngineContext{Model: reactive.NewModel(rt, KindEngineContext, "context")}
	c.engineReady = reactive.Define(c.Model, "engineReady", false)
	return c
}

// EngineReady returns whether the engine announced readiness.
func (c *EngineContext) EngineReady() bool {
	return c.engineReady.Get()
}

// SetEngineReady records engine readiness.
func (c *EngineContext) SetEngineReady(ready bool) {
	c.engineReady.Set(ready)
}
