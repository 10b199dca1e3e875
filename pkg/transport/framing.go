package transport

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/log"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize is the default maximum frame size (16 MB).
	// Asset listings of large projects easily exceed a few hundred KB.
	DefaultMaxMessageSize = 16 << 20

	// MaxLogFrameDataSize is the maximum frame data size included in logs.
	MaxLogFrameDataSize = 4096
)

// Framing errors.
var (
	// ErrMessageTooLarge indicates the frame exceeds the maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageEmpty indicates an empty frame.
	ErrMessageEmpty = errors.New("message is empty")

	// ErrFrameTruncated indicates the stream ended inside a frame.
	ErrFrameTruncated = errors.New("frame truncated")

	// ErrNewlineInFrame indicates a line frame containing a line break.
	ErrNewlineInFrame = errors.New("frame contains a newline")
)

// Framing selects how frames are delimited on a byte stream.
type Framing uint8

const (
	// FramingLines puts one frame per line. Suited to JSON.
	FramingLines Framing = iota
	// FramingLength prefixes each frame with its length. Suited to CBOR.
	FramingLength
)

// String returns the framing name as used in configuration.
func (f Framing) String() string {
	switch f {
	case FramingLines:
		return "lines"
	case FramingLength:
		return "length"
	default:
		return "unknown"
	}
}

// ParseFraming parses a framing name.
func ParseFraming(s string) (Framing, error) {
	switch s {
	case "", "lines":
		return FramingLines, nil
	case "length":
		return FramingLength, nil
	default:
		return 0, fmt.Errorf("unknown framing %q", s)
	}
}

// frameLog turns frames into protocol log events.
type frameLog struct {
	logger    log.Logger
	sessionID string
	transport string
}

func (l *frameLog) record(data []byte, overhead int, direction log.Direction) {
	if l == nil || l.logger == nil {
		return
	}
	frameData := data
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		frameData = data[:MaxLogFrameDataSize]
		truncated = true
	}
	l.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: l.sessionID,
		Direction: direction,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Transport: l.transport,
		Frame: &log.FrameEvent{
			Size:      overhead + len(data),
			Data:      frameData,
			Truncated: truncated,
		},
	})
}

// FrameWriter writes length-prefixed frames.
type FrameWriter struct {
	w              io.Writer
	maxMessageSize uint32
	mu             sync.Mutex
	log            *frameLog
}

// NewFrameWriter creates a frame writer with the default size limit.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w, maxMessageSize: DefaultMaxMessageSize}
}

// SetLogger configures frame logging. Pass nil to disable it.
func (fw *FrameWriter) SetLogger(logger log.Logger, sessionID, transport string) {
	fw.log = &frameLog{logger: logger, sessionID: sessionID, transport: transport}
}

// WriteFrame writes one frame. Safe for concurrent use.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if uint64(len(data)) > uint64(fw.maxMessageSize) {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), fw.maxMessageSize)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	// Prefix and payload in one write so concurrent writers never interleave
	// on unbuffered pipes.
	buf := make([]byte, LengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[LengthPrefixSize:], data)
	if _, err := fw.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	fw.log.record(data, LengthPrefixSize, log.DirectionOut)
	return nil
}

// FrameReader reads length-prefixed frames.
type FrameReader struct {
	r              io.Reader
	maxMessageSize uint32
	lengthBuf      [LengthPrefixSize]byte
	log            *frameLog
}

// NewFrameReader creates a frame reader with the default size limit.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, maxMessageSize: DefaultMaxMessageSize}
}

// SetLogger configures frame logging. Pass nil to disable it.
func (fr *FrameReader) SetLogger(logger log.Logger, sessionID, transport string) {
	fr.log = &frameLog{logger: logger, sessionID: sessionID, transport: transport}
}

// SetMaxMessageSize updates the maximum frame size.
func (fr *FrameReader) SetMaxMessageSize(size uint32) {
	fr.maxMessageSize = size
}

// ReadFrame reads one frame and returns its payload.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(fr.lengthBuf[:])
	if length == 0 {
		return nil, ErrMessageEmpty
	}
	if length > fr.maxMessageSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, fr.maxMessageSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	fr.log.record(payload, LengthPrefixSize, log.DirectionIn)
	return payload, nil
}

// Framer combines length-prefixed reading and writing.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a length-prefixed framer over rw.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger configures logging for both directions.
func (f *Framer) SetLogger(logger log.Logger, sessionID, transport string) {
	f.FrameReader.SetLogger(logger, sessionID, transport)
	f.FrameWriter.SetLogger(logger, sessionID, transport)
}

// FrameSize returns the total frame size including the length prefix.
func FrameSize(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}

// LineFramer reads and writes newline-delimited frames. Empty lines are
// skipped on read; a trailing carriage return is stripped.
type LineFramer struct {
	scanner *bufio.Scanner
	w       io.Writer
	mu      sync.Mutex
	log     *frameLog
}

// NewLineFramer creates a line framer reading from r and writing to w.
func NewLineFramer(r io.Reader, w io.Writer) *LineFramer {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), DefaultMaxMessageSize)
	return &LineFramer{scanner: s, w: w}
}

// SetLogger configures logging for both directions.
func (f *LineFramer) SetLogger(logger log.Logger, sessionID, transport string) {
	f.log = &frameLog{logger: logger, sessionID: sessionID, transport: transport}
}

// ReadFrame returns the next non-empty line.
func (f *LineFramer) ReadFrame() ([]byte, error) {
	for f.scanner.Scan() {
		line := bytes.TrimSuffix(f.scanner.Bytes(), []byte{'\r'})
		if len(line) == 0 {
			continue
		}
		frame := make([]byte, len(line))
		copy(frame, line)
		f.log.record(frame, 1, log.DirectionIn)
		return frame, nil
	}
	if err := f.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: line exceeds %d bytes", ErrMessageTooLarge, DefaultMaxMessageSize)
		}
		return nil, err
	}
	return nil, io.EOF
}

// WriteFrame writes data followed by a newline. Safe for concurrent use.
func (f *LineFramer) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if bytes.IndexByte(data, '\n') >= 0 {
		return ErrNewlineInFrame
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	buf := make([]byte, len(data)+1)
	copy(buf, data)
	buf[len(data)] = '\n'
	if _, err := f.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}

	f.log.record(data, 1, log.DirectionOut)
	return nil
}
