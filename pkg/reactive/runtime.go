package reactive

import (
	"log/slog"
	"sort"
)

// MaxReentrantRuns bounds how many times an autorun re-runs back to back
// because it wrote to its own read-set.
const MaxReentrantRuns = 100

// observable is the untyped view of a cell used for dependency tracking.
type observable interface {
	cellID() uint64
	addSubscriber(a *Autorun)
	removeSubscriber(a *Autorun)
}

// frame records the reads of one autorun execution.
// A nil frame on the stack suspends tracking (see Untracked).
type frame struct {
	run   *Autorun
	reads []observable
	seen  map[uint64]struct{}
}

// Runtime owns the tracking context and the id counters for one model tree.
type Runtime struct {
	logger *slog.Logger

	nextCellID uint64
	nextRunID  uint64

	// frames is the stack of recording contexts; the top frame receives reads.
	frames []*frame
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for scheduler warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Untracked runs fn with dependency tracking suspended.
// Reads inside fn are not added to the enclosing autorun's read-set.
func (rt *Runtime) Untracked(fn func()) {
	rt.frames = append(rt.frames, nil)
	defer rt.popFrame()
	fn()
}

// Tracking reports whether an autorun is currently recording reads.
func (rt *Runtime) Tracking() bool {
	return len(rt.frames) > 0 && rt.frames[len(rt.frames)-1] != nil
}

func (rt *Runtime) pushFrame(f *frame) {
	rt.frames = append(rt.frames, f)
}

func (rt *Runtime) popFrame() {
	rt.frames[len(rt.frames)-1] = nil
	rt.frames = rt.frames[:len(rt.frames)-1]
}

// track registers o in the read-set of the recording autorun.
// The subscription is taken immediately so that writes later in the same
// execution still mark the autorun dirty.
func (rt *Runtime) track(o observable) {
	if len(rt.frames) == 0 {
		return
	}
	f := rt.frames[len(rt.frames)-1]
	if f == nil {
		return
	}
	id := o.cellID()
	if _, ok := f.seen[id]; ok {
		return
	}
	f.seen[id] = struct{}{}
	f.reads = append(f.reads, o)
	o.addSubscriber(f.run)
}

// notify schedules every subscriber of a written cell, computed values first
// and then autoruns in creation order.
func (rt *Runtime) notify(subs map[uint64]*Autorun) {
	if len(subs) == 0 {
		return
	}
	pending := make([]*Autorun, 0, len(subs))
	for _, a := range subs {
		pending = append(pending, a)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].computed != pending[j].computed {
			return pending[i].computed
		}
		return pending[i].id < pending[j].id
	})
	for _, a := range pending {
		rt.schedule(a)
	}
}

// schedule runs a now, or marks it dirty when it is already executing.
func (rt *Runtime) schedule(a *Autorun) {
	if a.disposed {
		return
	}
	if a.running {
		a.dirty = true
		return
	}
	a.run()
}
