package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/ceramic-editor/editor-sync/pkg/log"
)

func TestFrameWriterReader(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"small message", []byte("hello")},
		{"medium message", bytes.Repeat([]byte("x"), 1000)},
		{"single byte", []byte{0x42}},
		{"binary data", []byte{0x00, 0xFF, 0x7F, 0x80, '\n'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)

			if err := NewFrameWriter(buf).WriteFrame(tt.payload); err != nil {
				t.Fatalf("WriteFrame failed: %v", err)
			}
			if buf.Len() != FrameSize(len(tt.payload)) {
				t.Errorf("frame size = %d, want %d", buf.Len(), FrameSize(len(tt.payload)))
			}

			got, err := NewFrameReader(buf).ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("payload mismatch: got %d bytes, want %d", len(got), len(tt.payload))
			}
		})
	}
}

func TestFrameReaderErrors(t *testing.T) {
	t.Run("empty stream", func(t *testing.T) {
		_, err := NewFrameReader(bytes.NewReader(nil)).ReadFrame()
		if err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
	})

	t.Run("truncated prefix", func(t *testing.T) {
		_, err := NewFrameReader(bytes.NewReader([]byte{0, 0})).ReadFrame()
		if !errors.Is(err, ErrFrameTruncated) {
			t.Errorf("expected ErrFrameTruncated, got %v", err)
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		var buf bytes.Buffer
		_ = binary.Write(&buf, binary.BigEndian, uint32(10))
		buf.WriteString("abc")
		_, err := NewFrameReader(&buf).ReadFrame()
		if !errors.Is(err, ErrFrameTruncated) {
			t.Errorf("expected ErrFrameTruncated, got %v", err)
		}
	})

	t.Run("zero length", func(t *testing.T) {
		_, err := NewFrameReader(bytes.NewReader([]byte{0, 0, 0, 0})).ReadFrame()
		if !errors.Is(err, ErrMessageEmpty) {
			t.Errorf("expected ErrMessageEmpty, got %v", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		r := NewFrameReader(bytes.NewReader([]byte{0, 0, 1, 0}))
		r.SetMaxMessageSize(16)
		_, err := r.ReadFrame()
		if !errors.Is(err, ErrMessageTooLarge) {
			t.Errorf("expected ErrMessageTooLarge, got %v", err)
		}
	})
}

func TestFrameWriterRejectsEmpty(t *testing.T) {
	if err := NewFrameWriter(io.Discard).WriteFrame(nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("expected ErrMessageEmpty, got %v", err)
	}
}

func TestFrameWriterConcurrent(t *testing.T) {
	var buf bytes.Buffer
	var bufMu sync.Mutex
	w := NewFrameWriter(writerFunc(func(p []byte) (int, error) {
		bufMu.Lock()
		defer bufMu.Unlock()
		return buf.Write(p)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = w.WriteFrame(bytes.Repeat([]byte{byte('a' + i)}, 100))
		}(i)
	}
	wg.Wait()

	r := NewFrameReader(&buf)
	for i := 0; i < 10; i++ {
		frame, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(frame, bytes.Repeat(frame[:1], 100)) {
			t.Fatalf("frame %d interleaved", i)
		}
	}
}

func TestLineFramer(t *testing.T) {
	input := "{\"type\":\"a/b\"}\r\n\n{\"type\":\"c/d\"}\n"
	f := NewLineFramer(strings.NewReader(input), io.Discard)

	first, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(first) != `{"type":"a/b"}` {
		t.Errorf("unexpected first frame %q", first)
	}
	second, _ := f.ReadFrame()
	if string(second) != `{"type":"c/d"}` {
		t.Errorf("empty line not skipped, got %q", second)
	}
	if _, err := f.ReadFrame(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestLineFramerWrite(t *testing.T) {
	var buf bytes.Buffer
	f := NewLineFramer(strings.NewReader(""), &buf)

	if err := f.WriteFrame([]byte("one")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if buf.String() != "one\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
	if err := f.WriteFrame([]byte("a\nb")); !errors.Is(err, ErrNewlineInFrame) {
		t.Errorf("expected ErrNewlineInFrame, got %v", err)
	}
	if err := f.WriteFrame(nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("expected ErrMessageEmpty, got %v", err)
	}
}

func TestFramingLogsFrames(t *testing.T) {
	rec := &recordingLogger{}
	var buf bytes.Buffer

	w := NewFrameWriter(&buf)
	w.SetLogger(rec, "session-1", "pipe")
	big := bytes.Repeat([]byte("z"), MaxLogFrameDataSize+10)
	if err := w.WriteFrame(big); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	r := NewFrameReader(&buf)
	r.SetLogger(rec, "session-1", "pipe")
	if _, err := r.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(rec.events))
	}
	out := rec.events[0]
	if out.Direction != log.DirectionOut || out.Layer != log.LayerTransport || out.Transport != "pipe" {
		t.Errorf("unexpected event %+v", out)
	}
	if !out.Frame.Truncated || len(out.Frame.Data) != MaxLogFrameDataSize {
		t.Errorf("large frame not truncated in log")
	}
	if out.Frame.Size != FrameSize(len(big)) {
		t.Errorf("frame size = %d, want %d", out.Frame.Size, FrameSize(len(big)))
	}
	if rec.events[1].Direction != log.DirectionIn {
		t.Errorf("second event should be inbound")
	}
}

func TestParseFraming(t *testing.T) {
	for _, name := range []string{"lines", "length"} {
		f, err := ParseFraming(name)
		if err != nil {
			t.Fatalf("ParseFraming(%q): %v", name, err)
		}
		if f.String() != name {
			t.Errorf("round trip of %q gave %q", name, f.String())
		}
	}
	if _, err := ParseFraming("udp"); err == nil {
		t.Error("expected error for unknown framing")
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
