package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/log"
	"github.com/gorilla/websocket"
)

// WebSocket is a Transport sending one frame per WebSocket message.
type WebSocket struct {
	conn         *websocket.Conn
	messageType  int
	writeTimeout time.Duration
	log          *frameLog
	keepAlive    *KeepAlive
	timedOut     atomic.Bool

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newWebSocket(conn *websocket.Conn, o options) *WebSocket {
	ws := &WebSocket{
		conn:         conn,
		messageType:  websocket.TextMessage,
		writeTimeout: o.writeTimeout,
	}
	if o.framing == FramingLength {
		ws.messageType = websocket.BinaryMessage
	}
	if o.logger != nil {
		ws.log = &frameLog{logger: o.logger, sessionID: o.sessionID, transport: o.name}
	}
	conn.SetReadLimit(DefaultMaxMessageSize)
	if o.keepAlive != nil {
		ws.startKeepAlive(*o.keepAlive)
	}
	return ws
}

// startKeepAlive pings with a 4-byte sequence number; the peer echoes it
// in the pong. Pongs are only seen while Receive is reading.
func (ws *WebSocket) startKeepAlive(config KeepAliveConfig) {
	ws.keepAlive = NewKeepAlive(config, func(seq uint32) error {
		return ws.conn.WriteControl(websocket.PingMessage, encodePingSeq(seq), time.Now().Add(ws.writeTimeout))
	}, func() {
		ws.timedOut.Store(true)
		_ = ws.Close()
	})
	ws.conn.SetPongHandler(func(data string) error {
		if seq, ok := decodePingSeq(data); ok {
			ws.keepAlive.PongReceived(seq)
		}
		return nil
	})
	ws.keepAlive.Start(context.Background())
}

// DialWebSocket connects to an engine listening at url (ws:// or wss://).
func DialWebSocket(ctx context.Context, url string, opts ...Option) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newWebSocket(conn, buildOptions("websocket", opts)), nil
}

// upgrader accepts any origin: the engine endpoint is local tooling.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// AcceptWebSocket upgrades an HTTP request into a WebSocket transport.
func AcceptWebSocket(w http.ResponseWriter, r *http.Request, opts ...Option) (*WebSocket, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return newWebSocket(conn, buildOptions("websocket", opts)), nil
}

// RemoteAddr returns the peer address.
func (ws *WebSocket) RemoteAddr() string {
	return ws.conn.RemoteAddr().String()
}

// Send implements Transport. Safe for concurrent use.
func (ws *WebSocket) Send(frame []byte) error {
	if ws.closed.Load() {
		return ErrClosed
	}
	if len(frame) == 0 {
		return ErrMessageEmpty
	}

	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()

	// A write deadline cannot be recovered from; the connection is done.
	_ = ws.conn.SetWriteDeadline(time.Now().Add(ws.writeTimeout))
	if err := ws.conn.WriteMessage(ws.messageType, frame); err != nil {
		if ws.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("websocket write: %w", err)
	}
	ws.log.record(frame, 0, log.DirectionOut)
	return nil
}

// Receive implements Transport. Control and empty messages are skipped.
func (ws *WebSocket) Receive() ([]byte, error) {
	for {
		messageType, message, err := ws.conn.ReadMessage()
		if err != nil {
			if ws.timedOut.Load() {
				return nil, ErrKeepAliveTimeout
			}
			if ws.closed.Load() {
				return nil, ErrClosed
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil, fmt.Errorf("websocket closed: %w", err)
			}
			return nil, err
		}
		switch messageType {
		case websocket.TextMessage, websocket.BinaryMessage:
			if len(message) == 0 {
				continue
			}
			ws.log.record(message, 0, log.DirectionIn)
			return message, nil
		}
	}
}

// Close sends a normal close message and closes the connection.
func (ws *WebSocket) Close() error {
	ws.closeOnce.Do(func() {
		ws.closed.Store(true)
		if ws.keepAlive != nil {
			ws.keepAlive.Stop()
		}
		ws.writeMu.Lock()
		_ = ws.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		ws.writeMu.Unlock()
		ws.closeErr = ws.conn.Close()
	})
	return ws.closeErr
}
