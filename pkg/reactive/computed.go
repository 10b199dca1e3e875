package reactive

// Computed is a read-only cell kept in sync with a derivation function.
// The derivation runs as an autorun owned by the model, ahead of plain
// autoruns reading the same cells.
type Computed[T any] struct {
	cell *Cell[T]
	run  *Autorun
}

// NewComputed defines a derived, read-only cell on m.
func NewComputed[T any](m *Model, name string, fn func() T) *Computed[T] {
	var zero T
	c := &Computed[T]{
		cell: Define(m, name, zero, ReadOnly()),
	}
	c.run = m.rt.newAutorun(m.kind+"."+name, func() {
		c.cell.Set(fn())
	}, true)
	m.own(c.run)
	c.run.run()
	return c
}

// Get returns the derived value and records the read.
func (c *Computed[T]) Get() T {
	return c.cell.Get()
}

// Peek returns the derived value without recording the read.
func (c *Computed[T]) Peek() T {
	return c.cell.Peek()
}

// Cell exposes the backing cell.
func (c *Computed[T]) Cell() *Cell[T] {
	return c.cell
}

// Dispose stops recomputation.
func (c *Computed[T]) Dispose() {
	c.run.Dispose()
}
