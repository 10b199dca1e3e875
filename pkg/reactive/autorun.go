package reactive

import "log/slog"

// Autorun is a reactive block re-executed whenever a cell it read on its
// latest run is written.
type Autorun struct {
	rt   *Runtime
	id   uint64
	name string
	fn   func()

	// deps is the read-set of the latest execution.
	deps []observable

	running  bool
	dirty    bool
	disposed bool
	computed bool

	runs int
}

// Autorun registers fn and executes it once synchronously.
func (rt *Runtime) Autorun(name string, fn func()) *Autorun {
	a := rt.newAutorun(name, fn, false)
	a.run()
	return a
}

func (rt *Runtime) newAutorun(name string, fn func(), computed bool) *Autorun {
	rt.nextRunID++
	return &Autorun{
		rt:       rt,
		id:       rt.nextRunID,
		name:     name,
		fn:       fn,
		computed: computed,
	}
}

// Name returns the autorun name given at registration.
func (a *Autorun) Name() string {
	return a.name
}

// Runs returns how many times the block has executed.
func (a *Autorun) Runs() int {
	return a.runs
}

// Dependencies returns how many cells the latest execution read.
func (a *Autorun) Dependencies() int {
	return len(a.deps)
}

// Disposed reports whether Dispose was called.
func (a *Autorun) Disposed() bool {
	return a.disposed
}

// Dispose removes all subscriptions. The block never runs again; effects
// already committed are kept.
func (a *Autorun) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	for _, d := range a.deps {
		d.removeSubscriber(a)
	}
	a.deps = nil
}

// run executes the block, then repeats while writes during the execution
// marked it dirty.
func (a *Autorun) run() {
	a.running = true
	defer func() { a.running = false }()

	for reruns := 0; ; reruns++ {
		a.dirty = false
		a.execute()
		if !a.dirty || a.disposed {
			return
		}
		if reruns+1 >= MaxReentrantRuns {
			a.rt.logger.Warn("autorun keeps invalidating itself, giving up",
				slog.String("autorun", a.name),
				slog.Int("runs", a.runs),
			)
			a.dirty = false
			return
		}
	}
}

// execute runs the block once inside a fresh recording frame and replaces
// the read-set with what was read.
func (a *Autorun) execute() {
	f := &frame{
		run:  a,
		seen: make(map[uint64]struct{}),
	}
	a.runs++

	a.rt.pushFrame(f)
	func() {
		defer a.rt.popFrame()
		a.fn()
	}()

	for _, d := range a.deps {
		if _, ok := f.seen[d.cellID()]; !ok {
			d.removeSubscriber(a)
		}
	}
	a.deps = f.reads

	if a.disposed {
		// Disposed from inside its own block: drop what this run subscribed.
		for _, d := range a.deps {
			d.removeSubscriber(a)
		}
		a.deps = nil
	}
}
