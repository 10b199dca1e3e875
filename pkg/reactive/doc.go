// Package reactive implements the observable model and the autorun scheduler.
//
// # Cells and Models
//
// A Cell holds one value of type T. Reading a cell with Get inside a running
// autorun registers the cell in that autorun's read-set. Writing a cell with
// Set bumps its version and re-runs every autorun that read it on its latest
// run. Set never compares old and new values: every assignment notifies.
//
// Cells are always created through Define and belong to exactly one Model.
// A Model is a named aggregate of cells with a stable identifier:
//
//	rt := reactive.NewRuntime()
//	ui := reactive.NewModel(rt, "ui", "")
//	selected := reactive.Define(ui, "selectedItemName", "", reactive.Persisted())
//
// # Autoruns
//
// An autorun executes its block once when registered and again whenever a
// cell from its latest read-set is written:
//
//	run := rt.Autorun("selection", func() {
//	    fmt.Println("selected:", selected.Get())
//	})
//	selected.Set("hero") // prints "selected: hero"
//	run.Dispose()
//
// Re-runs are synchronous. A write that targets an autorun which is already
// executing marks it dirty; it runs again once the current execution returns.
//
// # Threading
//
// A Runtime is not safe for concurrent use. Every cell access and every
// autorun executes on one logical thread (see package eventloop).
//
// # Snapshots
//
// Cells defined with Persisted are captured by Snapshot into a Record and
// written back by Restore. Non-persisted cells are never part of a Record.
package reactive
