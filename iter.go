package btreemap

import (
	"github.com/gammazero/deque"
	"golang.org/x/exp/constraints"
)

/*
Iteration walks the tree in order without recursion and without parent
links. The state is a pair of search paths, left and right, to the smallest
and largest pair not yet yielded, plus their lowest common ancestor, above
which the walk never climbs again — everything outside the ancestor has
already been consumed from one end or the other. Both paths are kept as
deques of per-node sub-traversals, so a step from either end costs amortized
constant time and the whole state is O(depth).

The same machinery would support arbitrary sub-range iteration by seeding
the two paths with lower and upper bounds instead of the tree's extremes;
only whole-tree iteration is wired up for now.
*/

// traversalItem is one step of a node traversal: a descent into child when
// child is non-nil, a key/value pair otherwise.
type traversalItem[K constraints.Ordered, V any] struct {
	child *node[K, V]
	key   K
	val   *V
}

// nodeIter walks the alternating edge/pair sequence of a single node:
// edge 0, pair 0, edge 1, …, pair L-1, edge L for an inner node with L
// pairs, or just the L pairs for a leaf. head and tail delimit the slots
// not yet visited, so the same instance can be consumed from both ends.
//
// An owning nodeIter unlinks each child as it hands it out; a tree walked
// to exhaustion by owning iterators is dismantled link by link, which keeps
// teardown iterative.
type nodeIter[K constraints.Ordered, V any] struct {
	n      *node[K, V]
	head   int
	tail   int
	owning bool
}

func newNodeIter[K constraints.Ordered, V any](n *node[K, V], owning bool) *nodeIter[K, V] {
	total := len(n.keys)
	if !n.isLeaf() {
		total = 2*len(n.keys) + 1
	}
	return &nodeIter[K, V]{n: n, tail: total, owning: owning}
}

func (ni *nodeIter[K, V]) next() (traversalItem[K, V], bool) {
	if ni.head >= ni.tail {
		return traversalItem[K, V]{}, false
	}
	at := ni.head
	ni.head++
	return ni.at(at), true
}

func (ni *nodeIter[K, V]) nextBack() (traversalItem[K, V], bool) {
	if ni.tail <= ni.head {
		return traversalItem[K, V]{}, false
	}
	ni.tail--
	return ni.at(ni.tail), true
}

func (ni *nodeIter[K, V]) at(slot int) traversalItem[K, V] {
	if ni.n.isLeaf() {
		return traversalItem[K, V]{key: ni.n.keys[slot], val: &ni.n.vals[slot]}
	}
	if slot%2 == 0 { // even slots are edges, odd slots are pairs
		child := ni.n.children[slot/2]
		if ni.owning {
			ni.n.children[slot/2] = nil
		}
		return traversalItem[K, V]{child: child}
	}
	return traversalItem[K, V]{key: ni.n.keys[slot/2], val: &ni.n.vals[slot/2]}
}

// rawIter is the in-order walk all iterator flavors are built on.
type rawIter[K constraints.Ordered, V any] struct {
	lca    *nodeIter[K, V]
	left   deque.Deque[*nodeIter[K, V]]
	right  deque.Deque[*nodeIter[K, V]]
	size   int
	owning bool
}

func newRawIter[K constraints.Ordered, V any](root *node[K, V], size int, owning bool) rawIter[K, V] {
	return rawIter[K, V]{lca: newNodeIter(root, owning), size: size, owning: owning}
}

// next yields the smallest pair not yet consumed from either end. It
// advances the deepest sub-traversal of the left path; a yielded edge
// deepens the path, an exhausted sub-traversal pops off. Once the left path
// is a sub-path of the right one, the ancestor advances instead, and when
// that runs dry the right path's shallowest node becomes the new ancestor.
func (it *rawIter[K, V]) next() (key K, val *V, ok bool) {
	for {
		var item traversalItem[K, V]
		var more bool
		if it.left.Len() > 0 {
			item, more = it.left.Back().next()
			if !more {
				it.left.PopBack()
				continue
			}
		} else {
			item, more = it.lca.next()
			if !more {
				if it.right.Len() == 0 {
					return key, nil, false
				}
				it.lca = it.right.PopFront()
				continue
			}
		}
		if item.child != nil {
			it.left.PushBack(newNodeIter(item.child, it.owning))
			continue
		}
		it.size--
		return item.key, item.val, true
	}
}

// nextBack is the exact mirror of next, working on the right path.
func (it *rawIter[K, V]) nextBack() (key K, val *V, ok bool) {
	for {
		var item traversalItem[K, V]
		var more bool
		if it.right.Len() > 0 {
			item, more = it.right.Back().nextBack()
			if !more {
				it.right.PopBack()
				continue
			}
		} else {
			item, more = it.lca.nextBack()
			if !more {
				if it.left.Len() == 0 {
					return key, nil, false
				}
				it.lca = it.left.PopFront()
				continue
			}
		}
		if item.child != nil {
			it.right.PushBack(newNodeIter(item.child, it.owning))
			continue
		}
		it.size--
		return item.key, item.val, true
	}
}

// --- Iterator flavors ------------------------------------------------------

// Iterator yields the pairs of a map in ascending key order. It can be
// consumed from both ends; Next and NextBack meet in the middle, together
// yielding every pair exactly once. Len is exact at every point.
type Iterator[K constraints.Ordered, V any] struct {
	inner rawIter[K, V]
}

// Iter returns an iterator over all pairs of the map, smallest key first.
// The map must not be mutated while the iterator is in use.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{inner: newRawIter(m.root, m.length, false)}
}

// Next yields the smallest remaining pair, or ok=false when the iterator
// is exhausted.
func (it *Iterator[K, V]) Next() (K, V, bool) {
	key, val, ok := it.inner.next()
	if !ok {
		var none V
		return key, none, false
	}
	return key, *val, true
}

// NextBack yields the largest remaining pair, or ok=false when the
// iterator is exhausted.
func (it *Iterator[K, V]) NextBack() (K, V, bool) {
	key, val, ok := it.inner.nextBack()
	if !ok {
		var none V
		return key, none, false
	}
	return key, *val, true
}

// Len returns the exact number of pairs still to be yielded.
func (it *Iterator[K, V]) Len() int {
	return it.inner.size
}

// RefIterator is an Iterator handing out pointers to the values, for
// mutating them in place during the walk.
type RefIterator[K constraints.Ordered, V any] struct {
	inner rawIter[K, V]
}

// IterRef returns an iterator over all pairs of the map that yields the
// values by reference. The map's structure must not be mutated while the
// iterator is in use; values may be changed through the yielded pointers.
func (m *Map[K, V]) IterRef() *RefIterator[K, V] {
	return &RefIterator[K, V]{inner: newRawIter(m.root, m.length, false)}
}

func (it *RefIterator[K, V]) Next() (K, *V, bool) {
	return it.inner.next()
}

func (it *RefIterator[K, V]) NextBack() (K, *V, bool) {
	return it.inner.nextBack()
}

func (it *RefIterator[K, V]) Len() int {
	return it.inner.size
}

// DrainIterator yields the pairs of a map while consuming it: the map is
// emptied when the iterator is created, and the old tree is dismantled
// node by node as the walk proceeds.
type DrainIterator[K constraints.Ordered, V any] struct {
	inner rawIter[K, V]
}

// Drain empties the map and returns an owning iterator over its former
// pairs, smallest key first.
func (m *Map[K, V]) Drain() *DrainIterator[K, V] {
	root, size := m.root, m.length
	m.root = newLeaf[K, V](m.b)
	m.length = 0
	m.depth = 1
	return &DrainIterator[K, V]{inner: newRawIter(root, size, true)}
}

func (it *DrainIterator[K, V]) Next() (K, V, bool) {
	key, val, ok := it.inner.next()
	if !ok {
		var none V
		return key, none, false
	}
	return key, *val, true
}

func (it *DrainIterator[K, V]) NextBack() (K, V, bool) {
	key, val, ok := it.inner.nextBack()
	if !ok {
		var none V
		return key, none, false
	}
	return key, *val, true
}

func (it *DrainIterator[K, V]) Len() int {
	return it.inner.size
}

// --- Projections -----------------------------------------------------------

// KeyIterator yields the keys of a map in ascending order; it is the key
// projection of Iterator, double-ended and exact-sized the same way.
type KeyIterator[K constraints.Ordered, V any] struct {
	inner rawIter[K, V]
}

// Keys returns an iterator over the keys of the map, smallest first.
func (m *Map[K, V]) Keys() *KeyIterator[K, V] {
	return &KeyIterator[K, V]{inner: newRawIter(m.root, m.length, false)}
}

func (it *KeyIterator[K, V]) Next() (K, bool) {
	key, _, ok := it.inner.next()
	return key, ok
}

func (it *KeyIterator[K, V]) NextBack() (K, bool) {
	key, _, ok := it.inner.nextBack()
	return key, ok
}

func (it *KeyIterator[K, V]) Len() int {
	return it.inner.size
}

// ValueIterator yields the values of a map in ascending key order; it is
// the value projection of Iterator.
type ValueIterator[K constraints.Ordered, V any] struct {
	inner rawIter[K, V]
}

// Values returns an iterator over the values of the map, ordered by their
// keys, smallest first.
func (m *Map[K, V]) Values() *ValueIterator[K, V] {
	return &ValueIterator[K, V]{inner: newRawIter(m.root, m.length, false)}
}

func (it *ValueIterator[K, V]) Next() (V, bool) {
	_, val, ok := it.inner.next()
	if !ok {
		var none V
		return none, false
	}
	return *val, true
}

func (it *ValueIterator[K, V]) NextBack() (V, bool) {
	_, val, ok := it.inner.nextBack()
	if !ok {
		var none V
		return none, false
	}
	return *val, true
}

func (it *ValueIterator[K, V]) Len() int {
	return it.inner.size
}
