// Package service wires a project to the engine.
//
// The Synchronizer owns three pieces of behavior:
//
//   - an autorun that rebuilds the project's asset catalogs whenever the
//     assets path or the engine readiness changes
//   - a "set/*" listener that applies keypath patches sent by the engine to
//     the UI state or to a named scene item
//   - a "scene-item/delete" listener that removes a scene item and clears a
//     selection pointing at it
//
// Plus an "engine/ready" listener feeding the engine context. Everything
// runs on the event loop that the bridge posts to; the Synchronizer itself
// is not safe for concurrent use.
package service
