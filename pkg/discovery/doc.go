// Package discovery finds engines on the local network with mDNS/DNS-SD.
//
// An engine that accepts WebSocket connections advertises the service type
// _editor-engine._tcp. The instance name is user-visible (usually the host
// or project name). TXT records carry:
//
//	v      protocol version
//	codec  envelope codec ("json" or "cbor")
//	path   WebSocket path (default "/")
//
// Editors browse for the service type and dial the first engine found, or
// the one whose instance name matches.
package discovery
