package model

import (
	"strconv"

	"github.com/ceramic-editor/editor-sync/pkg/keypath"
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
)

// ItemList is the ordered item sequence of a scene. Lists are treated as
// values: modify a copy and assign it back with Scene.SetItems.
type ItemList []*SceneItem

// IndexOf returns the position of the last item called name, or -1. This
// matches Scene.ItemsByName, where a later item shadows an earlier one.
// Item names are read untracked.
func (l ItemList) IndexOf(name string) int {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].name.Peek() == name {
			return i
		}
	}
	return -1
}

// IndexOfItem returns the position of item, or -1.
func (l ItemList) IndexOfItem(item *SceneItem) int {
	for i, it := range l {
		if it == item {
			return i
		}
	}
	return -1
}

// Without returns a copy of l without the item at index i.
func (l ItemList) Without(i int) ItemList {
	if i < 0 || i >= len(l) {
		return l
	}
	out := make(ItemList, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

// With returns a copy of l with item appended.
func (l ItemList) With(item *SceneItem) ItemList {
	out := make(ItemList, 0, len(l)+1)
	out = append(out, l...)
	return append(out, item)
}

// ReactiveModels implements reactive.ModelList.
func (l ItemList) ReactiveModels() []*reactive.Model {
	out := make([]*reactive.Model, len(l))
	for i, item := range l {
		out[i] = item.Model
	}
	return out
}

// Child implements keypath.Node. key is a decimal index or an item name.
func (l ItemList) Child(key string) (keypath.Accessor, bool) {
	if i, err := strconv.Atoi(key); err == nil {
		if i < 0 || i >= len(l) {
			return nil, false
		}
		return readOnly{l[i]}, true
	}
	if i := l.IndexOf(key); i >= 0 {
		return readOnly{l[i]}, true
	}
	return nil, false
}

// ItemIndex maps item names to items.
type ItemIndex map[string]*SceneItem

// Child implements keypath.Node.
func (x ItemIndex) Child(key string) (keypath.Accessor, bool) {
	item, ok := x[key]
	if !ok {
		return nil, false
	}
	return readOnly{item}, true
}

var (
	_ keypath.Node       = ItemList(nil)
	_ keypath.Node       = ItemIndex(nil)
	_ reactive.ModelList = ItemList(nil)
)
