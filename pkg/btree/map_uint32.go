package btree

import (
	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

// Uint32Map is the fixed-width specialization of Tree: an ordered map
// from uint32 keys to uint32 values, encoded little-endian.
type Uint32Map struct {
	tree *Tree
}

// NewUint32Map returns an empty map.
func NewUint32Map(opts ...Option) *Uint32Map {
	return &Uint32Map{tree: New(CompareUint32, opts...)}
}

// Tree exposes the underlying tree.
func (m *Uint32Map) Tree() *Tree { return m.tree }

// Insert adds (key, value). ErrKeyExists for duplicates.
func (m *Uint32Map) Insert(key, value uint32) error {
	return m.tree.Insert(utils.Uint32ToBytes(key), utils.Uint32ToBytes(value))
}

// Get returns the value for key.
func (m *Uint32Map) Get(key uint32) (uint32, bool) {
	it := m.LowerBound(key)
	if it.IsEnd() || utils.BytesToUint32(it.Key()) != key {
		return 0, false
	}
	return utils.BytesToUint32(it.Value()), true
}

// Erase removes key. Returns true iff it existed.
func (m *Uint32Map) Erase(key uint32) bool {
	return m.tree.Erase(utils.Uint32ToBytes(key))
}

// LowerBound returns an iterator on the smallest key >= key.
func (m *Uint32Map) LowerBound(key uint32) ItemIterator {
	return m.tree.LowerBound(utils.Uint32ToBytes(key))
}

// Begin returns an iterator on the smallest key.
func (m *Uint32Map) Begin() ItemIterator { return m.tree.BeginItem() }

// Size counts records.
func (m *Uint32Map) Size() int { return m.tree.Size() }

// Empty reports whether the map holds no records.
func (m *Uint32Map) Empty() bool { return m.tree.Empty() }

// Clear drops every record.
func (m *Uint32Map) Clear() { m.tree.Clear() }

// IsValid audits the underlying tree.
func (m *Uint32Map) IsValid() bool { return m.tree.IsValid() }
