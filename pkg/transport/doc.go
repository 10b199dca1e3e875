// Package transport carries encoded envelopes between the editor and the
// engine process.
//
// A Transport moves whole frames: one Send is one envelope, one Receive
// returns one envelope. Three channels are provided:
//
//   - Stream: any reader/writer pair, framed either with a 4-byte
//     big-endian length prefix (binary codecs) or one frame per line (JSON)
//   - Process: a Stream over the stdin/stdout of an engine subprocess
//   - WebSocket: one frame per WebSocket message, client or server side
//
// Pipe returns two connected in-memory Streams, used by tests and by the
// in-process engine simulator.
//
// # Ordering
//
// Frames are delivered in the order they were sent. Receive is meant to be
// called from a single reader goroutine; Send may be called concurrently.
package transport
