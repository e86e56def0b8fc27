package btreemap

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

/*
Remarks:
--------

- Nodes are mutated in place. All re-shaping of the tree (split, steal,
  merge) happens through a handful of primitives in this file, driven by a
  search stack (see stack.go) which remembers the path from the root to the
  position being mutated.

- A node of degree b holds at most 2b-1 pairs. Key and value slices are
  allocated at that full capacity once, when the node is created, and never
  re-allocated afterwards. The fullness check is simply len against cap.
*/

// node is a single tree node, either an inner node or a leaf.
// keys and vals are parallel slices, keys strictly increasing. For leafs,
// children will be nil; for inner nodes it holds len(keys)+1 links.
type node[K constraints.Ordered, V any] struct {
	keys     []K
	vals     []V
	children []*node[K, V]
}

// splitOutcome carries a promoted median pair and the split-off right
// sibling one level up the search path, where they get re-inserted.
type splitOutcome[K constraints.Ordered, V any] struct {
	key   K
	val   V
	right *node[K, V]
}

func newLeaf[K constraints.Ordered, V any](b int) *node[K, V] {
	return &node[K, V]{
		keys: make([]K, 0, 2*b-1),
		vals: make([]V, 0, 2*b-1),
	}
}

func newInner[K constraints.Ordered, V any](b int) *node[K, V] {
	n := newLeaf[K, V](b)
	n.children = make([]*node[K, V], 0, 2*b)
	return n
}

// makeInnerRoot grows a new root above a root that just split, with the
// promoted median as its only separator.
func makeInnerRoot[K constraints.Ordered, V any](b int, left *node[K, V], sp *splitOutcome[K, V]) *node[K, V] {
	root := newInner[K, V](b)
	root.keys = append(root.keys, sp.key)
	root.vals = append(root.vals, sp.val)
	root.children = append(root.children, left, sp.right)
	return root
}

func (n *node[K, V]) String() string {
	if n == nil {
		return "[]"
	}
	sb := strings.Builder{}
	sb.WriteRune('[')
	for i, key := range n.keys {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(fmt.Sprintf("%v", key))
	}
	sb.WriteRune(']')
	return sb.String()
}

func (n *node[K, V]) isLeaf() bool {
	return n.children == nil
}

func (n *node[K, V]) isFull() bool {
	return len(n.keys) == cap(n.keys)
}

// degree recovers the branching parameter from the capacity contract.
func (n *node[K, V]) degree() int {
	return (cap(n.keys) + 1) / 2
}

// isUnderfull reports whether the node dropped below b-1 pairs.
// Only meaningful for non-root nodes; the root may hold fewer.
func (n *node[K, V]) isUnderfull() bool {
	return len(n.keys) < n.degree()-1
}

// searchIn scans the keys of n left to right. It returns (true, i) on an
// exact match, and otherwise (false, i) for the edge to descend into, i.e.
// the position of the first key greater than the probe.
//
// The scan is linear on purpose: nodes are small, and a predictable walk
// over one contiguous array beats a binary search on every degree this map
// is intended for.
func (n *node[K, V]) searchIn(key K) (bool, int) {
	for i, k := range n.keys {
		if key == k {
			return true, i
		}
		if key < k {
			return false, i
		}
	}
	return false, len(n.keys)
}

// --- Pair-level primitives -------------------------------------------------

// insertFit places (key, val) at slot `at`, shifting the tail one to the
// right. The caller has ensured that the node has room.
func (n *node[K, V]) insertFit(at int, key K, val V) *V {
	n.keys = n.keys[:len(n.keys)+1]
	copy(n.keys[at+1:], n.keys[at:])
	n.keys[at] = key
	n.vals = n.vals[:len(n.vals)+1]
	copy(n.vals[at+1:], n.vals[at:])
	n.vals[at] = val
	return &n.vals[at]
}

// insertChildFit links child at position `at` of the children, shifting the
// tail one to the right.
func (n *node[K, V]) insertChildFit(at int, child *node[K, V]) {
	n.children = n.children[:len(n.children)+1]
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = child
}

// truncate cuts the pair slices back to length l, zeroing the vacated slots
// so values do not linger past their removal.
func (n *node[K, V]) truncate(l int) {
	var zkey K
	var zval V
	for i := l; i < len(n.keys); i++ {
		n.keys[i] = zkey
		n.vals[i] = zval
	}
	n.keys = n.keys[:l]
	n.vals = n.vals[:l]
}

// cutChildren drops the child links from position l on.
func (n *node[K, V]) cutChildren(l int) {
	for i := l; i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = n.children[:l]
}

// --- Splitting -------------------------------------------------------------

// split divides a full node around its median, at index b-1. The node is
// truncated in place and keeps the left half; the right half moves into a
// fresh sibling. Returns the median pair and the new sibling.
//
// Note that splitting happens *before* a pending pair is placed (see
// insertAsLeaf), not after: inserting first would need transient room for
// 2b pairs. As a consequence the two halves may end up with their sizes
// swapped relative to the textbook description, which the balance
// invariants don't care about, and a promoted median is never the pair
// that triggered the split.
func (n *node[K, V]) split() (K, V, *node[K, V]) {
	mid := n.degree() - 1
	medKey, medVal := n.keys[mid], n.vals[mid]
	var right *node[K, V]
	if n.isLeaf() {
		right = newLeaf[K, V](n.degree())
	} else {
		right = newInner[K, V](n.degree())
	}
	right.keys = right.keys[:len(n.keys)-mid-1]
	copy(right.keys, n.keys[mid+1:])
	right.vals = right.vals[:len(n.vals)-mid-1]
	copy(right.vals, n.vals[mid+1:])
	if !n.isLeaf() {
		right.children = right.children[:len(n.children)-mid-1]
		copy(right.children, n.children[mid+1:])
		n.cutChildren(mid + 1)
	}
	n.truncate(mid)
	tracer().Debugf("split: med = %v, L = %s, R = %s", medKey, n, right)
	return medKey, medVal, right
}

// insertAsLeaf installs (key, val) at edge slot `at` of a leaf. If the leaf
// is full it is split first and the pair goes into whichever half its slot
// falls in. A non-nil splitOutcome asks the caller to install the median
// and the new right sibling one level up.
//
// The returned pointer addresses the value's final slot; it stays valid
// while the propagation runs, since propagation only re-links nodes.
func (n *node[K, V]) insertAsLeaf(at int, key K, val V) (*V, *splitOutcome[K, V]) {
	assertThat(n.isLeaf(), "attempt to insert pair at non-leaf")
	if !n.isFull() {
		return n.insertFit(at, key, val), nil
	}
	medKey, medVal, right := n.split()
	var ptr *V
	if at <= len(n.keys) {
		ptr = n.insertFit(at, key, val)
	} else {
		ptr = right.insertFit(at-len(n.keys)-1, key, val)
	}
	return ptr, &splitOutcome[K, V]{key: medKey, val: medVal, right: right}
}

// insertAsInner installs a separator pair at slot `at` of an inner node,
// with rightChild linked immediately to its right. Same split logic as
// insertAsLeaf.
func (n *node[K, V]) insertAsInner(at int, key K, val V, rightChild *node[K, V]) *splitOutcome[K, V] {
	assertThat(!n.isLeaf(), "attempt to insert separator at leaf")
	if !n.isFull() {
		n.insertFit(at, key, val)
		n.insertChildFit(at+1, rightChild)
		return nil
	}
	medKey, medVal, right := n.split()
	if at <= len(n.keys) {
		n.insertFit(at, key, val)
		n.insertChildFit(at+1, rightChild)
	} else {
		at -= len(n.keys) + 1
		right.insertFit(at, key, val)
		right.insertChildFit(at+1, rightChild)
	}
	return &splitOutcome[K, V]{key: medKey, val: medVal, right: right}
}

// removeAsLeaf takes the pair at slot `at` out of a leaf, shifting the tail
// one to the left, and returns it.
func (n *node[K, V]) removeAsLeaf(at int) (K, V) {
	assertThat(n.isLeaf(), "pair removal has to start at a leaf")
	key, val := n.keys[at], n.vals[at]
	copy(n.keys[at:], n.keys[at+1:])
	copy(n.vals[at:], n.vals[at+1:])
	n.truncate(len(n.keys) - 1)
	return key, val
}

// --- Underflow handling ----------------------------------------------------

/*
After a removal a node may drop below b-1 pairs. Preference order for the
repair is fixed: steal the rightmost pair of the left sibling if it can
spare one, else the leftmost pair of the right sibling, else merge through
the separating pair in the parent — into the left sibling when one exists,
otherwise absorbing the right one. A merge shrinks the parent by one pair,
so the parent itself may underflow; the search stack re-checks level by
level on its way back to the root.
*/

// canSpare reports whether a node holds more than the b-1 pairs it has to
// keep, i.e. whether a sibling may steal from it without underflowing it.
func (n *node[K, V]) canSpare() bool {
	return len(n.keys) > n.degree()-1
}

// handleUnderflow repairs the underfull child hanging off edge `at` of n.
func (n *node[K, V]) handleUnderflow(at int) {
	assertThat(!n.isLeaf(), "attempt to balance children of a leaf")
	if at > 0 && n.children[at-1].canSpare() {
		n.stealFromLeft(at)
	} else if at+1 < len(n.children) && n.children[at+1].canSpare() {
		n.stealFromRight(at)
	} else if at > 0 {
		n.mergeChildren(at - 1)
	} else {
		n.mergeChildren(at)
	}
}

// stealFromLeft rotates the rightmost pair of the left sibling through the
// separator into the underfull child at edge `at`. For inner siblings the
// cut-off child link travels along and becomes the child's leftmost link.
func (n *node[K, V]) stealFromLeft(at int) {
	left, child := n.children[at-1], n.children[at]
	tracer().Debugf("steal: rotate right through separator %d of %s", at-1, n)
	last := len(left.keys) - 1
	stolenKey, stolenVal := left.keys[last], left.vals[last]
	var stolenChild *node[K, V]
	if !left.isLeaf() {
		stolenChild = left.children[last+1]
		left.cutChildren(last + 1)
	}
	left.truncate(last)
	sepKey, sepVal := n.keys[at-1], n.vals[at-1]
	n.keys[at-1], n.vals[at-1] = stolenKey, stolenVal
	child.insertFit(0, sepKey, sepVal)
	if !child.isLeaf() {
		child.insertChildFit(0, stolenChild)
	}
}

// stealFromRight is the mirror image of stealFromLeft.
func (n *node[K, V]) stealFromRight(at int) {
	child, right := n.children[at], n.children[at+1]
	tracer().Debugf("steal: rotate left through separator %d of %s", at, n)
	stolenKey, stolenVal := right.keys[0], right.vals[0]
	var stolenChild *node[K, V]
	copy(right.keys, right.keys[1:])
	copy(right.vals, right.vals[1:])
	if !right.isLeaf() {
		stolenChild = right.children[0]
		copy(right.children, right.children[1:])
		right.cutChildren(len(right.children) - 1)
	}
	right.truncate(len(right.keys) - 1)
	sepKey, sepVal := n.keys[at], n.vals[at]
	n.keys[at], n.vals[at] = stolenKey, stolenVal
	child.insertFit(len(child.keys), sepKey, sepVal)
	if !child.isLeaf() {
		child.insertChildFit(len(child.children), stolenChild)
	}
}

// mergeChildren concatenates child `at`, the separator pair above it, and
// child at+1 into a single node, which replaces both. Both siblings hold at
// most b-1 pairs here, so the merged node fits its capacity of 2b-1.
func (n *node[K, V]) mergeChildren(at int) {
	left, right := n.children[at], n.children[at+1]
	tracer().Debugf("merge: children %d+%d of %s through %v", at, at+1, n, n.keys[at])
	left.insertFit(len(left.keys), n.keys[at], n.vals[at])
	l := len(left.keys)
	left.keys = left.keys[:l+len(right.keys)]
	copy(left.keys[l:], right.keys)
	left.vals = left.vals[:l+len(right.vals)]
	copy(left.vals[l:], right.vals)
	if !left.isLeaf() {
		lc := len(left.children)
		left.children = left.children[:lc+len(right.children)]
		copy(left.children[lc:], right.children)
	}
	copy(n.keys[at:], n.keys[at+1:])
	copy(n.vals[at:], n.vals[at+1:])
	n.truncate(len(n.keys) - 1)
	copy(n.children[at+1:], n.children[at+2:])
	n.cutChildren(len(n.children) - 1)
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("btreemap: "+msg, msgargs...)
		panic(msg)
	}
}
