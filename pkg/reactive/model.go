package reactive

import (
	"fmt"

	"github.com/google/uuid"
)

// Model is a named aggregate of cells with a stable identifier.
// Domain types embed *Model and define their cells with Define.
type Model struct {
	rt   *Runtime
	id   string
	kind string

	props  []Property
	byName map[string]Property

	owned    []*Autorun
	disposed bool
}

// NewModel creates a model of the given kind. An empty id gets a fresh UUID;
// ids are never reused across instances.
func NewModel(rt *Runtime, kind, id string) *Model {
	if id == "" {
		id = uuid.NewString()
	}
	return &Model{
		rt:     rt,
		id:     id,
		kind:   kind,
		byName: make(map[string]Property),
	}
}

// ID returns the stable model identifier.
func (m *Model) ID() string {
	return m.id
}

// Kind returns the model kind (e.g. "scene").
func (m *Model) Kind() string {
	return m.kind
}

// Runtime returns the runtime the model's cells belong to.
func (m *Model) Runtime() *Runtime {
	return m.rt
}

// ReactiveModel returns m. Domain types override it to handle nil receivers.
func (m *Model) ReactiveModel() *Model {
	return m
}

// Property returns the cell registered under name.
func (m *Model) Property(name string) (Property, bool) {
	p, ok := m.byName[name]
	return p, ok
}

// Properties returns the cells in definition order.
func (m *Model) Properties() []Property {
	out := make([]Property, len(m.props))
	copy(out, m.props)
	return out
}

// Disposed reports whether Dispose was called.
func (m *Model) Disposed() bool {
	return m.disposed
}

// Dispose stops the autoruns owned by the model (computed values).
// Cell values stay readable.
func (m *Model) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	for _, a := range m.owned {
		a.Dispose()
	}
	m.owned = nil
}

func (m *Model) register(p Property) {
	if _, exists := m.byName[p.Name()]; exists {
		panic(fmt.Sprintf("reactive: %s already defines %q", m.kind, p.Name()))
	}
	m.props = append(m.props, p)
	m.byName[p.Name()] = p
}

func (m *Model) own(a *Autorun) {
	m.owned = append(m.owned, a)
}
