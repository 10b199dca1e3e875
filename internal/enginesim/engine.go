// Package enginesim is an in-process stand-in for the engine. It answers
// asset classification requests, announces readiness and can push keypath
// patches and deletions to the editor.
package enginesim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// Engine serves one editor connection.
type Engine struct {
	transport transport.Transport
	codec     wire.Codec
	logger    *slog.Logger
	announce  bool

	onMessage func(env wire.Envelope)

	sendMu   sync.Mutex
	requests atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithCodec sets the envelope codec (default JSON).
func WithCodec(c wire.Codec) Option {
	return func(e *Engine) {
		if c != nil {
			e.codec = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMessageHook registers fn to see every decoded inbound envelope.
func WithMessageHook(fn func(env wire.Envelope)) Option {
	return func(e *Engine) { e.onMessage = fn }
}

// WithoutReady suppresses the engine/ready announcement on Run.
func WithoutReady() Option {
	return func(e *Engine) { e.announce = false }
}

// New creates an engine speaking over t.
func New(t transport.Transport, opts ...Option) *Engine {
	e := &Engine{
		transport: t,
		codec:     wire.JSONCodec{},
		logger:    slog.Default(),
		announce:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Requests returns the number of assets/lists requests answered.
func (e *Engine) Requests() int {
	return int(e.requests.Load())
}

// Run announces readiness and serves requests until the transport closes
// or ctx is done. A closed transport ends Run without error.
func (e *Engine) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = e.transport.Close() })
	defer stop()

	if e.announce {
		if err := e.Ready(); err != nil {
			return err
		}
	}

	for {
		frame, err := e.transport.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, transport.ErrClosed) {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}
		env, err := e.codec.Decode(frame)
		if err != nil {
			e.logger.Warn("engine: dropping undecodable frame", slog.Any("error", err))
			continue
		}
		if e.onMessage != nil {
			e.onMessage(env)
		}
		if err := e.handle(env); err != nil {
			return err
		}
	}
}

func (e *Engine) handle(env wire.Envelope) error {
	if env.Reply {
		return nil
	}
	payload, err := wire.Decode(env)
	if err != nil {
		e.logger.Warn("engine: invalid request", slog.String("type", env.Type), slog.Any("error", err))
		return nil
	}
	switch p := payload.(type) {
	case wire.AssetsListsRequest:
		e.requests.Add(1)
		resp := Classify(p.List)
		e.logger.Debug("engine: classified assets", slog.Int("files", len(p.List)), slog.Int("assets", len(resp.All)))
		return e.send(env.ReplyTo(resp))
	default:
		e.logger.Debug("engine: ignoring message", slog.String("type", env.Type))
		return nil
	}
}

// Ready announces that the engine accepts requests.
func (e *Engine) Ready() error {
	return e.send(wire.NewEnvelope(wire.EngineReady{}))
}

// SendPatch pushes "set/<keypath>" with value.
func (e *Engine) SendPatch(keypath string, value any) error {
	return e.send(wire.NewEnvelope(wire.SetPatch{Keypath: keypath, Value: value}))
}

// DeleteItem pushes "scene-item/delete" for name.
func (e *Engine) DeleteItem(name string) error {
	return e.send(wire.NewEnvelope(wire.SceneItemDelete{Name: name}))
}

func (e *Engine) send(env wire.Envelope) error {
	data, err := e.codec.Encode(env)
	if err != nil {
		return err
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	if err := e.transport.Send(data); err != nil {
		return fmt.Errorf("send %s: %w", env.Type, err)
	}
	return nil
}

// Close closes the transport.
func (e *Engine) Close() error {
	return e.transport.Close()
}
