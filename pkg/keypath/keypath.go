// Package keypath reads and writes nested fields addressed by dotted paths
// such as "ui.selectedItemName" or "scene.items.hero.x".
//
// Each path segment is resolved against the current node, in this order:
//
//   - a reactive model: the segment names one of its cells
//   - a Node: the segment is passed to Child (item lists, name indexes)
//   - map[string]any or *wire.OrderedMap: the segment is a key
//   - []any: the segment is a decimal index
//
// Plain maps and slices held by a cell are never mutated in place. A write
// copies the container and assigns the copy back through its parent, so the
// owning cell is written and its autoruns re-run.
package keypath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// Separator splits path segments.
const Separator = "."

// Keypath errors.
var (
	// ErrUnresolved is returned by Set when an intermediate segment does not
	// resolve. Callers treat it as a no-op.
	ErrUnresolved = errors.New("keypath does not resolve")

	// ErrReadOnly is returned when the leaf cannot be written.
	ErrReadOnly = reactive.ErrReadOnly

	// ErrTypeMismatch is returned when the value does not fit the leaf.
	ErrTypeMismatch = reactive.ErrTypeMismatch
)

// Accessor is a get/set capability pair for one addressable field.
// reactive.Property implements it.
type Accessor interface {
	Value() any
	Assign(v any) error
}

// Node is implemented by custom containers that resolve segments themselves.
type Node interface {
	Child(key string) (Accessor, bool)
}

// propertyOwner is a reactive model or any type exposing one.
type propertyOwner interface {
	Property(name string) (reactive.Property, bool)
}

// Split returns the segments of path. An empty path has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Get returns the value at path below root. The boolean is false when any
// segment does not resolve. Reads of reactive cells are tracked.
func Get(root any, path string) (any, bool) {
	segs := Split(path)
	if len(segs) == 0 {
		return nil, false
	}
	cur := root
	for _, seg := range segs {
		acc, ok := child(cur, seg, nil, false)
		if !ok {
			return nil, false
		}
		cur = acc.Value()
	}
	return cur, true
}

// Set overwrites the value at path below root. Missing map keys at the leaf
// are created; any other unresolved segment yields ErrUnresolved.
func Set(root any, path string, v any) error {
	segs := Split(path)
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", ErrUnresolved)
	}

	cur := root
	var parent Accessor
	for i, seg := range segs[:len(segs)-1] {
		acc, ok := child(cur, seg, parent, false)
		if !ok {
			return fmt.Errorf("%w: %q at %q", ErrUnresolved, path, Join(segs[:i+1]...))
		}
		parent = acc
		cur = acc.Value()
	}

	leaf, ok := child(cur, segs[len(segs)-1], parent, true)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnresolved, path)
	}
	if err := leaf.Assign(v); err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return nil
}

// child resolves key on node. parent is the accessor node was read from,
// used to write back copied containers; create allows new map keys.
func child(node any, key string, parent Accessor, create bool) (Accessor, bool) {
	switch n := node.(type) {
	case nil:
		return nil, false
	case reactive.Snapshotter:
		m := n.ReactiveModel()
		if m == nil {
			return nil, false
		}
		return property(m, key)
	case propertyOwner:
		return property(n, key)
	case Node:
		return n.Child(key)
	case map[string]any:
		if _, ok := n[key]; !ok && !create {
			return nil, false
		}
		return &mapEntry{m: n, key: key, parent: parent}, true
	case *wire.OrderedMap:
		if n == nil {
			return nil, false
		}
		if _, ok := n.Get(key); !ok && !create {
			return nil, false
		}
		return &orderedEntry{m: n, key: key, parent: parent}, true
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return &sliceEntry{s: n, index: i, parent: parent}, true
	default:
		return nil, false
	}
}

func property(o propertyOwner, key string) (Accessor, bool) {
	p, ok := o.Property(key)
	if !ok {
		return nil, false
	}
	return p, true
}

type mapEntry struct {
	m      map[string]any
	key    string
	parent Accessor
}

func (e *mapEntry) Value() any {
	return e.m[e.key]
}

func (e *mapEntry) Assign(v any) error {
	if e.parent == nil {
		e.m[e.key] = v
		return nil
	}
	next := make(map[string]any, len(e.m)+1)
	for k, old := range e.m {
		next[k] = old
	}
	next[e.key] = v
	return e.parent.Assign(next)
}

type orderedEntry struct {
	m      *wire.OrderedMap
	key    string
	parent Accessor
}

func (e *orderedEntry) Value() any {
	v, _ := e.m.Get(e.key)
	return v
}

func (e *orderedEntry) Assign(v any) error {
	if e.parent == nil {
		e.m.Set(e.key, v)
		return nil
	}
	next := e.m.Clone()
	next.Set(e.key, v)
	return e.parent.Assign(next)
}

type sliceEntry struct {
	s      []any
	index  int
	parent Accessor
}

func (e *sliceEntry) Value() any {
	return e.s[e.index]
}

func (e *sliceEntry) Assign(v any) error {
	if e.parent == nil {
		e.s[e.index] = v
		return nil
	}
	next := make([]any, len(e.s))
	copy(next, e.s)
	next[e.index] = v
	return e.parent.Assign(next)
}
