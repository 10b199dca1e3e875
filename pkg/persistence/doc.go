// Package persistence stores snapshots of the editor state.
//
// A snapshot document wraps the reactive.Record of a project (persisted
// cells only) with a format version, a time-sortable revision id and a
// content digest. The file format follows the file extension: ".json" is
// JSON, anything else is YAML.
//
// Save skips the write when the digest of the new root equals the digest
// stored on disk, so autosave can run on every change without touching the
// file for no-op edits.
package persistence
