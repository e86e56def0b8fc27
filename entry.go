package btreemap

import (
	"golang.org/x/exp/constraints"
)

// Entry is a view into the slot a single key occupies in a map, for
// in-place manipulation without repeated searches. Exactly one of the two
// sub-views is present: an OccupiedEntry if the key was found, a
// VacantEntry otherwise.
//
// Use it like this:
//
//	if occupied, ok := m.Entry(key).Occupied(); ok {
//	    *occupied.Ref() += 1
//	}
//
// An Entry retains the search path into the map. It has to be consumed
// before the map is touched through any other method.
type Entry[K constraints.Ordered, V any] struct {
	occupied *OccupiedEntry[K, V]
	vacant   *VacantEntry[K, V]
}

// Entry searches for key and returns a view of its slot, occupied or
// vacant. The search path is retained, so the view's operations do not
// descend the tree again.
func (m *Map[K, V]) Entry(key K) Entry[K, V] {
	stack := newSearchStack(m)
	if stack.descend(key) {
		return Entry[K, V]{occupied: &OccupiedEntry[K, V]{stack: stack}}
	}
	return Entry[K, V]{vacant: &VacantEntry[K, V]{key: key, stack: stack}}
}

// Occupied returns the occupied view of an entry, if the key was present.
func (e Entry[K, V]) Occupied() (*OccupiedEntry[K, V], bool) {
	return e.occupied, e.occupied != nil
}

// Vacant returns the vacant view of an entry, if the key was absent.
func (e Entry[K, V]) Vacant() (*VacantEntry[K, V], bool) {
	return e.vacant, e.vacant != nil
}

// OccupiedEntry is a view onto the pair a present key lives in. Its search
// stack is sealed at the pair's slot, which may sit in a leaf or an inner
// node.
type OccupiedEntry[K constraints.Ordered, V any] struct {
	stack *searchStack[K, V]
}

// Get returns the value of the pair.
func (oe *OccupiedEntry[K, V]) Get() V {
	return *oe.stack.top.valRef()
}

// Ref returns a pointer to the value of the pair, valid until the next
// mutation of the map.
func (oe *OccupiedEntry[K, V]) Ref() *V {
	return oe.stack.top.valRef()
}

// Set replaces the value of the pair and returns the previous one.
func (oe *OccupiedEntry[K, V]) Set(value V) V {
	ref := oe.stack.top.valRef()
	prev := *ref
	*ref = value
	return prev
}

// Remove takes the pair out of the map and returns its value, re-balancing
// through the retained search path. The entry is spent afterwards.
func (oe *OccupiedEntry[K, V]) Remove() V {
	return oe.stack.remove()
}

// VacantEntry is a view onto the leaf edge an absent key would have to be
// inserted at. It owns the searched-for key.
type VacantEntry[K constraints.Ordered, V any] struct {
	key   K
	stack *searchStack[K, V]
}

// Insert binds the entry's key to value and returns a pointer to the
// freshly stored value. The entry is spent afterwards.
func (ve *VacantEntry[K, V]) Insert(value V) *V {
	return ve.stack.insert(ve.key, value)
}
