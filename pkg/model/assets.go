package model

import (
	"fmt"

	"github.com/ceramic-editor/editor-sync/pkg/keypath"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// AssetInfo is one classified asset.
type AssetInfo = wire.AssetInfo

// AssetsStatus tracks where the asset catalogs come from.
type AssetsStatus uint8

const (
	// AssetsUnknown means there is no valid assets directory. All catalogs
	// are nil.
	AssetsUnknown AssetsStatus = iota
	// AssetsEmpty means the directory is valid but the engine is not ready.
	// All catalogs are empty and non-nil.
	AssetsEmpty
	// AssetsPending means a classification request is in flight.
	AssetsPending
	// AssetsLoaded means the catalogs hold the engine's last answer.
	AssetsLoaded
)

// String returns the status name.
func (s AssetsStatus) String() string {
	switch s {
	case AssetsUnknown:
		return "unknown"
	case AssetsEmpty:
		return "empty"
	case AssetsPending:
		return "pending"
	case AssetsLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("AssetsStatus(%d)", s)
	}
}

// NameIndex maps asset names to their paths, in the order the engine sent
// them. It is read-only once built.
type NameIndex struct {
	names []string
	paths map[string][]string
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{paths: make(map[string][]string)}
}

// NameIndexFrom builds an index from a decoded object whose values are
// path lists. nil yields an empty index.
func NameIndexFrom(v any) (*NameIndex, error) {
	x := NewNameIndex()
	if v == nil {
		return x, nil
	}
	keys, values, ok := wire.Entries(v)
	if !ok {
		return nil, fmt.Errorf("%w: name index is %T", wire.ErrInvalidValue, v)
	}
	for i, k := range keys {
		paths, err := wire.StringList(values[i])
		if err != nil {
			return nil, fmt.Errorf("name index %q: %w", k, err)
		}
		x.add(k, paths)
	}
	return x, nil
}

func (x *NameIndex) add(name string, paths []string) {
	if _, exists := x.paths[name]; !exists {
		x.names = append(x.names, name)
	}
	x.paths[name] = paths
}

// Len returns the number of names. A nil index is empty.
func (x *NameIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.names)
}

// Names returns the names in order.
func (x *NameIndex) Names() []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.names...)
}

// Get returns the paths for name.
func (x *NameIndex) Get(name string) ([]string, bool) {
	if x == nil {
		return nil, false
	}
	p, ok := x.paths[name]
	return p, ok
}

// Range calls fn for each entry in order until fn returns false.
func (x *NameIndex) Range(fn func(name string, paths []string) bool) {
	if x == nil {
		return
	}
	for _, n := range x.names {
		if !fn(n, x.paths[n]) {
			return
		}
	}
}

// ToOrderedMap converts the index for encoding.
func (x *NameIndex) ToOrderedMap() *wire.OrderedMap {
	om := wire.NewOrderedMap()
	x.Range(func(name string, paths []string) bool {
		om.Set(name, paths)
		return true
	})
	return om
}

// Child implements keypath.Node.
func (x *NameIndex) Child(key string) (keypath.Accessor, bool) {
	p, ok := x.Get(key)
	if !ok {
		return nil, false
	}
	return readOnly{p}, true
}

// readOnly is an accessor for values that cannot be replaced by keypath.
type readOnly struct {
	v any
}

func (r readOnly) Value() any { return r.v }

func (r readOnly) Assign(any) error { return keypath.ErrReadOnly }

var _ keypath.Node = (*NameIndex)(nil)
