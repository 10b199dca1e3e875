package reactive

import (
	"errors"
	"fmt"
)

// Cell errors.
var (
	ErrTypeMismatch = errors.New("value type does not match field")
	ErrReadOnly     = errors.New("field is read-only")
)

// Property is the untyped capability pair exposed by every cell.
// The keypath resolver and Restore only see cells through this interface.
type Property interface {
	// Name returns the field name within the owning model.
	Name() string

	// Persisted reports whether the cell is part of a snapshot.
	Persisted() bool

	// Version returns the number of writes so far.
	Version() uint64

	// Value returns the current value, tracked like Get.
	Value() any

	// Assign validates v against the cell type and stores it.
	Assign(v any) error
}

// Cell is a single observable storage slot.
type Cell[T any] struct {
	rt    *Runtime
	owner *Model
	id    uint64
	name  string

	value   T
	version uint64

	subscribers map[uint64]*Autorun

	persisted bool
	readOnly  bool
}

// CellOption configures a cell at definition time.
type CellOption func(*cellOptions)

type cellOptions struct {
	persisted bool
	readOnly  bool
}

// Persisted marks the cell for inclusion in snapshots.
func Persisted() CellOption {
	return func(o *cellOptions) { o.persisted = true }
}

// ReadOnly rejects untyped writes (Assign). Typed Set is still allowed for
// the owning code.
func ReadOnly() CellOption {
	return func(o *cellOptions) { o.readOnly = true }
}

// Define creates a cell named name owned by m.
// Defining the same name twice on one model panics.
func Define[T any](m *Model, name string, initial T, opts ...CellOption) *Cell[T] {
	var o cellOptions
	for _, opt := range opts {
		opt(&o)
	}

	m.rt.nextCellID++
	c := &Cell[T]{
		rt:        m.rt,
		owner:     m,
		id:        m.rt.nextCellID,
		name:      name,
		value:     initial,
		persisted: o.persisted,
		readOnly:  o.readOnly,
	}
	m.register(c)
	return c
}

// Get returns the value and records the read in the running autorun.
func (c *Cell[T]) Get() T {
	c.rt.track(c)
	return c.value
}

// Peek returns the value without recording the read.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores v and re-runs the dependent autoruns. Equal values still notify.
func (c *Cell[T]) Set(v T) {
	c.value = v
	c.version++
	c.rt.notify(c.subscribers)
}

// Name returns the field name.
func (c *Cell[T]) Name() string {
	return c.name
}

// Owner returns the model the cell belongs to.
func (c *Cell[T]) Owner() *Model {
	return c.owner
}

// Version returns the number of writes so far.
func (c *Cell[T]) Version() uint64 {
	return c.version
}

// Persisted reports whether the cell is part of a snapshot.
func (c *Cell[T]) Persisted() bool {
	return c.persisted
}

// Value implements Property.
func (c *Cell[T]) Value() any {
	return c.Get()
}

// Assign implements Property.
func (c *Cell[T]) Assign(v any) error {
	if c.readOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.name)
	}
	typed, err := Convert[T](v)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	c.Set(typed)
	return nil
}

// Subscribers returns how many autoruns currently depend on the cell.
func (c *Cell[T]) Subscribers() int {
	return len(c.subscribers)
}

func (c *Cell[T]) cellID() uint64 {
	return c.id
}

func (c *Cell[T]) addSubscriber(a *Autorun) {
	if c.subscribers == nil {
		c.subscribers = make(map[uint64]*Autorun)
	}
	c.subscribers[a.id] = a
}

func (c *Cell[T]) removeSubscriber(a *Autorun) {
	delete(c.subscribers, a.id)
}

// Compile-time interface satisfaction check.
var _ Property = (*Cell[int])(nil)
