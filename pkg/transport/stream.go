package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/log"
)

// Option configures a transport.
type Option func(*options)

type options struct {
	framing      Framing
	logger       log.Logger
	sessionID    string
	name         string
	writeTimeout time.Duration
	keepAlive    *KeepAliveConfig
}

func buildOptions(defaultName string, opts []Option) options {
	o := options{
		framing:      FramingLines,
		name:         defaultName,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFraming selects the frame delimiting (streams) or the message kind
// (WebSocket: lines → text, length → binary).
func WithFraming(f Framing) Option {
	return func(o *options) { o.framing = f }
}

// WithProtocolLogger logs every frame under sessionID.
func WithProtocolLogger(logger log.Logger, sessionID string) Option {
	return func(o *options) {
		o.logger = logger
		o.sessionID = sessionID
	}
}

// WithName overrides the transport name reported in protocol logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithWriteTimeout bounds a single WebSocket write (default 10s).
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithKeepAlive pings the WebSocket peer and closes the connection when
// it stops answering. Streams ignore it.
func WithKeepAlive(config KeepAliveConfig) Option {
	return func(o *options) { o.keepAlive = &config }
}

// framed is what Stream needs from a framer.
type framed interface {
	FrameReadWriter
	SetLogger(logger log.Logger, sessionID, transport string)
}

// Stream is a Transport over a reader/writer pair.
type Stream struct {
	frames framed
	closer io.Closer
	name   string

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewStream frames r and w. closer, if not nil, is closed by Close.
func NewStream(r io.Reader, w io.Writer, closer io.Closer, opts ...Option) *Stream {
	o := buildOptions("stream", opts)

	var frames framed
	switch o.framing {
	case FramingLength:
		frames = &Framer{FrameReader: NewFrameReader(r), FrameWriter: NewFrameWriter(w)}
	default:
		frames = NewLineFramer(r, w)
	}
	if o.logger != nil {
		frames.SetLogger(o.logger, o.sessionID, o.name)
	}

	return &Stream{
		frames: frames,
		closer: closer,
		name:   o.name,
	}
}

// NewConnStream frames a network connection.
func NewConnStream(conn net.Conn, opts ...Option) *Stream {
	return NewStream(conn, conn, conn, append([]Option{WithName("conn")}, opts...)...)
}

// NewStdioStream frames the process's own stdin and stdout, as used by an
// engine started by the editor.
func NewStdioStream(opts ...Option) *Stream {
	return NewStream(os.Stdin, os.Stdout, nil, append([]Option{WithName("stdio")}, opts...)...)
}

// Pipe returns two connected in-memory streams.
func Pipe(opts ...Option) (*Stream, *Stream) {
	a, b := net.Pipe()
	opts = append([]Option{WithName("pipe")}, opts...)
	return NewStream(a, a, a, opts...), NewStream(b, b, b, opts...)
}

// Name returns the transport name.
func (s *Stream) Name() string {
	return s.name
}

// Send implements Transport.
func (s *Stream) Send(frame []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.frames.WriteFrame(frame); err != nil {
		if s.closed.Load() || errors.Is(err, io.ErrClosedPipe) {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Receive implements Transport.
func (s *Stream) Receive() ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	frame, err := s.frames.ReadFrame()
	if err != nil {
		if s.closed.Load() {
			return nil, ErrClosed
		}
		if errors.Is(err, io.ErrClosedPipe) {
			return nil, io.EOF
		}
		return nil, err
	}
	return frame, nil
}

// Close implements Transport. It is safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.closer != nil {
			s.closeErr = s.closer.Close()
		}
	})
	return s.closeErr
}
