// Package wire defines the message envelope exchanged with the engine
// process and the codecs that put it on the wire.
//
// # Envelope
//
// Every message is an Envelope: a slash-delimited type plus an opaque value.
// Replies carry Reply=true. When correlation ids are enabled the sender
// stamps ID and the engine echoes it in the reply.
//
//	{"type": "assets/lists", "value": {"list": ["a.png"]}}
//	{"type": "assets/lists", "reply": true, "value": {"images": [...]}}
//
// # Codecs
//
// JSONCodec is the default. Objects decode to *OrderedMap so that key order
// of ordered sections (allByName, scene-item patches) survives decoding.
// CBORCodec uses deterministic encoding with integer envelope keys; CBOR maps
// are canonically sorted, so ordered sections arrive in key order.
//
// # Payloads
//
// Decode turns an envelope into one of the known Payload variants, or
// Unrecognized for any other type. Both the typed form (used in-process,
// before encoding) and the decoded form (maps and slices) are accepted.
package wire
