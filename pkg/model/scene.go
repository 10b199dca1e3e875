package model

import (
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
)

// computeItemsByName tracks the item list and every item name. When two
// items share a name the later one wins.
func (m *Scene) computeItemsByName() ItemIndex {
	items := m.items.Get()
	index := make(ItemIndex, len(items))
	for _, item := range items {
		index[item.Name()] = item
	}
	return index
}

// Item returns the item called name.
func (m *Scene) Item(name string) (*SceneItem, bool) {
	item, ok := m.ItemsByName()[name]
	return item, ok
}

// AddItem appends a new item called name and returns it.
func (m *Scene) AddItem(name, entity string) *SceneItem {
	item := NewSceneItem(m.Runtime(), "")
	item.SetName(name)
	item.SetEntity(entity)
	m.items.Set(m.items.Peek().With(item))
	return item
}

// RemoveItem removes the item called name from the list and disposes it.
// It reports whether an item was removed.
func (m *Scene) RemoveItem(name string) bool {
	items := m.items.Peek()
	i := items.IndexOf(name)
	if i < 0 {
		return false
	}
	return m.Remove(items[i])
}

// Remove removes item from the list and disposes it. It reports whether
// item was part of the scene.
func (m *Scene) Remove(item *SceneItem) bool {
	items := m.items.Peek()
	i := items.IndexOfItem(item)
	if i < 0 {
		return false
	}
	m.items.Set(items.Without(i))
	item.Dispose()
	return true
}

// RestoreField rebuilds the item models of a restored scene.
func (m *Scene) RestoreField(name string, v any) (bool, error) {
	if name != SceneFieldItems {
		return false, nil
	}
	recs, err := reactive.RecordsFrom(v)
	if err != nil {
		return true, err
	}
	items := make(ItemList, 0, len(recs))
	for _, rec := range recs {
		item := NewSceneItem(m.Runtime(), rec.ID)
		if err := reactive.Restore(item.Model, rec, nil); err != nil {
			return true, err
		}
		items = append(items, item)
	}
	m.items.Set(items)
	return true, nil
}

// Dispose disposes the scene and its items.
func (m *Scene) Dispose() {
	for _, item := range m.items.Peek() {
		item.Dispose()
	}
	m.Model.Dispose()
}
