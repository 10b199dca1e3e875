// Package eventloop runs closures one at a time on a single goroutine.
//
// The reactive model is not safe for concurrent use. Everything that touches
// it (bridge dispatch, reply callbacks, shell commands) is posted onto one
// Loop and runs to completion before the next closure starts.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// DefaultQueueSize is the number of closures that can wait before Post blocks.
const DefaultQueueSize = 256

// ErrStopped is returned when posting to a loop that has stopped.
var ErrStopped = errors.New("event loop stopped")

// Poster schedules closures for later execution.
type Poster interface {
	// Post queues fn. It returns false when fn will never run.
	Post(fn func()) bool
}

// Loop is a FIFO queue of closures drained by Run.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	logger *slog.Logger

	stopOnce sync.Once
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the queue capacity.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithLogger sets the logger used to report panicking closures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loop. Closures can be posted before Run starts.
func New(opts ...Option) *Loop {
	l := &Loop{
		tasks:  make(chan func(), DefaultQueueSize),
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post implements Poster. It blocks while the queue is full.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		// Run may have taken fn just before stopping.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is done or Stop is called. Closures still
// queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

// Stop ends Run. Later posts are rejected.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop task panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

// Inline runs every posted closure immediately on the caller's goroutine.
// Used where the caller already is the single logical thread, e.g. tests.
type Inline struct{}

// Post implements Poster.
func (Inline) Post(fn func()) bool {
	fn()
	return true
}

// Compile-time interface satisfaction checks.
var (
	_ Poster = (*Loop)(nil)
	_ Poster = Inline{}
)
