// Package log records the protocol traffic between the editor and the
// engine.
//
// It is separate from operational logging (slog). Protocol capture keeps a
// machine-readable trace of every frame, envelope and lifecycle change so a
// session can be replayed and inspected after the fact.
//
// # Basic Usage
//
//	// Console while developing
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// File for later inspection with sync-log
//	file, _ := log.NewFileLogger("session.synclog")
//
//	// Both
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), file)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys and use
// the .synclog extension.
package log
