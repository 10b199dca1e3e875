package transport

import "errors"

// ErrClosed is returned by operations on a closed transport.
var ErrClosed = errors.New("transport closed")

// Transport moves whole frames to and from the engine.
type Transport interface {
	// Send writes one frame.
	Send(frame []byte) error

	// Receive blocks until the next frame arrives. It returns io.EOF or
	// ErrClosed when the peer or the local side closed the channel.
	Receive() ([]byte, error)

	// Close releases the channel and unblocks Receive.
	Close() error
}

// FrameReadWriter provides frame I/O over a byte stream.
// Implemented by Framer and LineFramer.
type FrameReadWriter interface {
	// ReadFrame reads one frame.
	ReadFrame() ([]byte, error)

	// WriteFrame writes one frame.
	WriteFrame(data []byte) error
}

// Compile-time interface satisfaction checks.
var (
	_ Transport       = (*Stream)(nil)
	_ Transport       = (*Process)(nil)
	_ Transport       = (*WebSocket)(nil)
	_ FrameReadWriter = (*Framer)(nil)
	_ FrameReadWriter = (*LineFramer)(nil)
)
