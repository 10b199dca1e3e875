package main

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/ceramic-editor/editor-sync/internal/enginesim"
	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// hub accepts editor connections and fans interactive pushes out to them.
type hub struct {
	ctx    context.Context
	codec  wire.Codec
	logger *slog.Logger

	mu      sync.Mutex
	engines map[string]*enginesim.Engine
}

func newHub(ctx context.Context, codec wire.Codec, logger *slog.Logger) *hub {
	return &hub{
		ctx:     ctx,
		codec:   codec,
		logger:  logger,
		engines: make(map[string]*enginesim.Engine),
	}
}

// ServeHTTP upgrades the request and serves it until the editor leaves.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	framing := transport.FramingLines
	if h.codec.Name() == wire.CodecCBOR {
		framing = transport.FramingLength
	}
	ws, err := transport.AcceptWebSocket(w, r, transport.WithFraming(framing))
	if err != nil {
		h.logger.Warn("Upgrade failed", slog.Any("error", err))
		return
	}
	addr := ws.RemoteAddr()
	e := enginesim.New(ws, enginesim.WithCodec(h.codec), enginesim.WithLogger(h.logger.With(slog.String("editor", addr))))

	h.mu.Lock()
	h.engines[addr] = e
	h.mu.Unlock()
	h.logger.Info("Editor connected", slog.String("editor", addr))

	err = e.Run(h.ctx)

	h.mu.Lock()
	delete(h.engines, addr)
	h.mu.Unlock()
	h.logger.Info("Editor disconnected", slog.String("editor", addr), slog.Any("error", err))
}

func (h *hub) clients() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	addrs := make([]string, 0, len(h.engines))
	for addr := range h.engines {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

// each calls fn for every connected engine and returns the number reached.
func (h *hub) each(fn func(e *enginesim.Engine) error) (int, error) {
	h.mu.Lock()
	engines := make([]*enginesim.Engine, 0, len(h.engines))
	for _, e := range h.engines {
		engines = append(engines, e)
	}
	h.mu.Unlock()

	var firstErr error
	n := 0
	for _, e := range engines {
		if err := fn(e); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		n++
	}
	return n, firstErr
}

func (h *hub) closeAll() {
	_, _ = h.each(func(e *enginesim.Engine) error { return e.Close() })
}
