package btreemap

import (
	"golang.org/x/exp/constraints"
)

// defaultDegree is an empirically cache-friendly node width for common
// key/value sizes: nodes hold up to 11 pairs.
const defaultDegree = 6

// Map is a mutable ordered map from keys of type K to values of type V,
// backed by a B-tree. Every node except the root keeps between b-1 and
// 2b-1 pairs in contiguous arrays, all leaves sit at the same depth, and
// iteration yields pairs in ascending key order.
//
// Use it like this:
//
//	m := btreemap.New[int, string]()
//	m.Insert(42, "Galaxy")
//	value, found := m.Find(42)   // returns "Galaxy"
//
// A Map is not safe for concurrent use: mutating operations require
// exclusive access for their full duration. Read-only access from multiple
// goroutines is fine as long as no mutator runs.
type Map[K constraints.Ordered, V any] struct {
	root   *node[K, V]
	length int
	depth  int
	b      int
}

// New constructs an empty map with options, if you need any.
// The root starts out as an empty leaf; the branching parameter defaults
// to 6 and is fixed for the lifetime of the map.
func New[K constraints.Ordered, V any](opts ...Option) *Map[K, V] {
	m := &Map[K, V]{b: defaultDegree, depth: 1}
	for _, option := range opts {
		m.b = option.config(m.b)
	}
	m.root = newLeaf[K, V](m.b)
	return m
}

// Option is a type to help initializing maps at creation time.
type Option struct {
	config func(int) int
}

// Degree is an option to set the branching parameter of the tree: every
// node except the root will own between b-1 and 2b-1 pairs. The lower
// bound for the degree is 2, the smallest value that admits splitting;
// anything below is a caller bug, and New panics when it applies such an
// option.
//
// Use it like this:
//
//	m := btreemap.New[int, string](btreemap.Degree(16))
//
func Degree(b int) Option {
	return Option{config: func(int) int {
		assertThat(b >= 2, "degree must be 2 at least, have %d", b)
		return b
	}}
}

// Len returns the number of pairs in the map.
func (m *Map[K, V]) Len() int {
	return m.length
}

// IsEmpty returns true if the map contains no pairs.
func (m *Map[K, V]) IsEmpty() bool {
	return m.length == 0
}

// --- Lookup ----------------------------------------------------------------

// Searching is straightforward: start at the root and scan the node. On an
// exact match we're done; otherwise follow the edge before the smallest key
// greater than the probe (or the last edge if all keys are smaller). In a
// leaf, a miss means the key is not in the tree.

// Find locates a key in the map, if present, and returns the value bound to
// it. If key is not found, the zero value for type V will be returned,
// together with found=false.
func (m *Map[K, V]) Find(key K) (V, bool) {
	if ptr := m.lookup(key); ptr != nil {
		return *ptr, true
	}
	var none V
	return none, false
}

// FindRef locates a key in the map and returns a pointer to the value bound
// to it, or nil if key is not present. The caller may mutate the value
// through the pointer; it stays valid until the next mutation of the map.
func (m *Map[K, V]) FindRef(key K) *V {
	return m.lookup(key)
}

// MustFind is Find for callers that treat an absent key as a bug: it panics
// instead of reporting absence.
func (m *Map[K, V]) MustFind(key K) V {
	ptr := m.lookup(key)
	assertThat(ptr != nil, "no entry found for key %v", key)
	return *ptr
}

// Contains returns true if the map holds a pair for the given key.
func (m *Map[K, V]) Contains(key K) bool {
	return m.lookup(key) != nil
}

func (m *Map[K, V]) lookup(key K) *V {
	n := m.root
	for {
		found, index := n.searchIn(key)
		if found {
			return &n.vals[index]
		}
		if n.isLeaf() {
			return nil
		}
		n = n.children[index]
	}
}

// --- Mutation --------------------------------------------------------------

// Insert binds key to value. If the map already held a pair for key, only
// the value is replaced (the present key is kept), and the previous value
// is returned together with replaced=true.
func (m *Map[K, V]) Insert(key K, value V) (V, bool) {
	stack := newSearchStack(m)
	if stack.descend(key) {
		ref := stack.top.valRef()
		prev := *ref
		*ref = value
		return prev, true
	}
	tracer().Debugf("insert: slot path = %s", stack)
	stack.insert(key, value)
	var none V
	return none, false
}

// Delete removes the pair for key from the map, returning its value. If key
// is not found, the map is left untouched and removed=false is returned.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	stack := newSearchStack(m)
	if !stack.descend(key) {
		var none V
		return none, false
	}
	tracer().Debugf("delete: slot path = %s", stack)
	return stack.remove(), true
}

// Clear removes all pairs from the map. The old tree is consumed through an
// owning iterator, so teardown is iterative and stack usage stays bounded
// even for degenerate depths.
func (m *Map[K, V]) Clear() {
	drain := m.Drain()
	for {
		if _, _, ok := drain.Next(); !ok {
			return
		}
	}
}
