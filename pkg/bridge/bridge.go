package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/eventloop"
	"github.com/ceramic-editor/editor-sync/pkg/log"
	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
	"github.com/google/uuid"
)

// Bridge errors.
var (
	ErrClosed          = errors.New("bridge is closed")
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// ResponseFunc receives the reply to one request.
type ResponseFunc func(reply wire.Envelope)

// Handler receives inbound messages matching a listener pattern.
type Handler func(env wire.Envelope)

// pendingRequest is resolved at most once, then discarded.
type pendingRequest struct {
	id         uint32
	typ        string
	sentAt     time.Time
	onResponse ResponseFunc
}

// Bridge multiplexes requests and listeners over one transport.
type Bridge struct {
	transport transport.Transport
	codec     wire.Codec
	poster    eventloop.Poster
	logger    *slog.Logger
	protoLog  log.Logger
	sessionID string
	correlate bool

	mu        sync.Mutex
	pending   []*pendingRequest
	nextID    uint32
	listeners []*Subscription
	nextSubID uint64
	closed    bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithCodec sets the envelope codec (default JSON).
func WithCodec(c wire.Codec) Option {
	return func(b *Bridge) {
		if c != nil {
			b.codec = c
		}
	}
}

// WithPoster sets where dispatches from Run are executed
// (default eventloop.Inline, i.e. on the reader goroutine).
func WithPoster(p eventloop.Poster) Option {
	return func(b *Bridge) {
		if p != nil {
			b.poster = p
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithProtocolLogger records every envelope under sessionID. An empty
// sessionID gets a fresh UUID.
func WithProtocolLogger(l log.Logger, sessionID string) Option {
	return func(b *Bridge) {
		b.protoLog = log.OrNoop(l)
		if sessionID != "" {
			b.sessionID = sessionID
		}
	}
}

// WithCorrelationIDs stamps outgoing requests with an id and pairs replies
// carrying that id first. Replies without an id still resolve in send order.
func WithCorrelationIDs() Option {
	return func(b *Bridge) { b.correlate = true }
}

// New creates a bridge over t.
func New(t transport.Transport, opts ...Option) *Bridge {
	b := &Bridge{
		transport: t,
		codec:     wire.JSONCodec{},
		poster:    eventloop.Inline{},
		logger:    slog.Default(),
		protoLog:  log.NoopLogger{},
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SessionID returns the id used in protocol logs.
func (b *Bridge) SessionID() string {
	return b.sessionID
}

// Send transmits env. When onResponse is not nil it runs once with the
// reply. Send never waits for the reply; there is no timeout and no way to
// cancel a pending request.
func (b *Bridge) Send(env wire.Envelope, onResponse ResponseFunc) error {
	if err := env.Validate(); err != nil {
		return err
	}
	env.Reply = false

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	var req *pendingRequest
	if onResponse != nil {
		req = &pendingRequest{typ: env.Type, onResponse: onResponse}
		if b.correlate {
			b.nextID++
			if b.nextID == 0 {
				b.nextID = 1
			}
			req.id = b.nextID
			env.ID = req.id
		}
		// Registered before the frame leaves: the reply may be dispatched
		// before transport.Send returns.
		req.sentAt = time.Now()
		b.pending = append(b.pending, req)
	}
	b.mu.Unlock()

	data, err := b.codec.Encode(env)
	if err == nil {
		err = b.transport.Send(data)
	}
	if err != nil {
		if req != nil {
			b.dropPending(req)
		}
		b.logError("send", err)
		return fmt.Errorf("send %s: %w", env.Type, err)
	}

	b.logMessage(env, log.DirectionOut, nil)
	return nil
}

// SendPayload sends a typed payload.
func (b *Bridge) SendPayload(p wire.Payload, onResponse ResponseFunc) error {
	return b.Send(wire.NewEnvelope(p), onResponse)
}

// Dispatch delivers one inbound envelope: replies resolve a pending request,
// everything else goes to the matching listeners.
func (b *Bridge) Dispatch(env wire.Envelope) {
	if env.Reply {
		b.resolve(env)
		return
	}

	b.mu.Lock()
	var matched []*Subscription
	for _, s := range b.listeners {
		if wire.MatchType(s.pattern, env.Type) {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	b.logMessage(env, log.DirectionIn, nil)
	if len(matched) == 0 {
		b.logger.Debug("no listener for message", slog.String("type", env.Type))
		return
	}
	for _, s := range matched {
		if s.Removed() {
			continue
		}
		s.handler(env)
	}
}

func (b *Bridge) resolve(env wire.Envelope) {
	b.mu.Lock()
	index := -1
	if b.correlate && env.ID != 0 {
		for i, req := range b.pending {
			if req.id == env.ID {
				index = i
				break
			}
		}
	}
	if index < 0 && len(b.pending) > 0 && (env.ID == 0 || !b.correlate) {
		index = 0
	}
	if index < 0 {
		b.mu.Unlock()
		b.logMessage(env, log.DirectionIn, nil)
		b.logger.Warn("dropping reply without pending request",
			slog.String("type", env.Type),
			slog.Uint64("id", uint64(env.ID)),
		)
		b.logError("dispatch", fmt.Errorf("%w: %s", ErrUnexpectedReply, env))
		return
	}
	req := b.pending[index]
	b.pending = append(b.pending[:index:index], b.pending[index+1:]...)
	b.mu.Unlock()

	if req.typ != env.Type {
		b.logger.Warn("reply type differs from request",
			slog.String("request", req.typ),
			slog.String("reply", env.Type),
		)
	}
	latency := time.Since(req.sentAt)
	b.logMessage(env, log.DirectionIn, &latency)
	req.onResponse(env)
}

func (b *Bridge) dropPending(req *pendingRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.pending {
		if p == req {
			b.pending = append(b.pending[:i:i], b.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of requests waiting for a reply.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Listeners returns the number of active listeners.
func (b *Bridge) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Run reads frames until ctx is done or the transport fails, posting each
// decoded envelope to the poster. Undecodable frames are logged and
// skipped. Transport errors are returned.
func (b *Bridge) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = b.Close() })
	defer stop()

	b.logState("", "running", "")
	for {
		frame, err := b.transport.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logState("running", "disconnected", err.Error())
			return fmt.Errorf("receive: %w", err)
		}

		env, err := b.codec.Decode(frame)
		if err != nil {
			b.logger.Warn("dropping undecodable frame", slog.Int("size", len(frame)), slog.Any("error", err))
			b.logError("decode", err)
			continue
		}

		if !b.poster.Post(func() { b.Dispatch(env) }) {
			return eventloop.ErrStopped
		}
	}
}

// Close closes the transport. Pending callbacks never run.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	pending := len(b.pending)
	b.mu.Unlock()

	if pending > 0 {
		b.logger.Debug("closing with unanswered requests", slog.Int("pending", pending))
	}
	return b.transport.Close()
}

func (b *Bridge) logMessage(env wire.Envelope, dir log.Direction, latency *time.Duration) {
	b.protoLog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: b.sessionID,
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:    env.Type,
			ID:      env.ID,
			Reply:   env.Reply,
			Payload: env.Value,
			Pending: b.Pending(),
			Latency: latency,
		},
	})
}

func (b *Bridge) logState(oldState, newState, reason string) {
	b.protoLog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: b.sessionID,
		Layer:     log.LayerWire,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (b *Bridge) logError(context string, err error) {
	b.protoLog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: b.sessionID,
		Layer:     log.LayerWire,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerWire,
			Message: err.Error(),
			Context: context,
		},
	})
}
