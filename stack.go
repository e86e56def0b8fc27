package btreemap

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

/*
Every mutating operation manages a path from the root to the position it
acts on, consisting of an array of slots. A slot is a tree node together
with an index into the keys/children held by that node.

Example, given a tree

	Map(size=9 depth=2 b=3)
	.
	└── [2,5]
	    ├── [0,1]
	    ├── [3,4]
	    └── [6,8,9]

to reach key '8' in the rightmost leaf at level 2, the path consists of the
frame ⟨2@[2,5]⟩ and the terminal slot ⟨1@[6,8,9]⟩.

A pure descend-and-return design would have to walk back to the root for
every operation, even a leaf insert that fits. Keeping the frames around
and consuming them one at a time, deepest first, lets an insert that fits
or a removal without underflow touch nothing but the leaf. Only one frame
is live at any moment, and an ancestor is only touched after all work below
it is finished.
*/

// slot identifies a position inside a single node. For the frames of a
// search path it is the edge (child link) that was descended into; for the
// terminal position of a search it is either the key slot an operation acts
// on or the leaf edge where a missing key would go. A slot for a node with
// n keys may have index ∈ 0 … n.
type slot[K constraints.Ordered, V any] struct {
	node  *node[K, V]
	index int
}

func (s slot[K, V]) String() string {
	return strconv.Itoa(s.index) + "@" + s.node.String()
}

func (s slot[K, V]) valRef() *V {
	assertThat(s.index < len(s.node.keys), "slot does not address a pair")
	return &s.node.vals[s.index]
}

// searchStack is the retained root-to-target path of one mutating
// operation. frames hold (inner node, edge index) pairs from the root
// downward; top is the terminal slot. The stack stands in for exclusive
// access to the whole map for the duration of the operation; no other
// access may happen while one is alive.
type searchStack[K constraints.Ordered, V any] struct {
	m      *Map[K, V]
	frames []slot[K, V]
	top    slot[K, V]
}

func newSearchStack[K constraints.Ordered, V any](m *Map[K, V]) *searchStack[K, V] {
	return &searchStack[K, V]{
		m:      m,
		frames: make([]slot[K, V], 0, m.depth),
	}
}

func (s *searchStack[K, V]) String() string {
	sb := strings.Builder{}
	sb.WriteRune('[')
	for _, frame := range s.frames {
		sb.WriteString(fmt.Sprintf("⟨%s⟩", frame))
	}
	sb.WriteString(fmt.Sprintf("|⟨%s⟩]", s.top))
	return sb.String()
}

// descend walks from the root towards key, recording the edge taken at
// every inner node passed through. It seals the stack either at the key's
// slot (found; in a leaf or an inner node) or at the edge of a leaf where
// the key would have to be inserted (not found).
func (s *searchStack[K, V]) descend(key K) (found bool) {
	n := s.m.root
	for {
		var index int
		found, index = n.searchIn(key)
		if found || n.isLeaf() {
			s.top = slot[K, V]{node: n, index: index}
			return found
		}
		s.frames = append(s.frames, slot[K, V]{node: n, index: index})
		n = n.children[index]
	}
}

func (s *searchStack[K, V]) popFrame() slot[K, V] {
	frame := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return frame
}

// insert installs (key, val) at the stack's top, which has to be an edge in
// a leaf, and propagates splits towards the root for as long as nodes
// overflow. If the root itself splits, a new root grows above the two
// halves and the tree deepens by one. Returns a pointer to the value's
// final slot.
func (s *searchStack[K, V]) insert(key K, val V) *V {
	s.m.length++
	ptr, sp := s.top.node.insertAsLeaf(s.top.index, key, val)
	for sp != nil {
		if len(s.frames) == 0 {
			tracer().Debugf("insert: root %s split, tree deepens", s.m.root)
			s.m.root = makeInnerRoot(s.m.b, s.m.root, sp)
			s.m.depth++
			break
		}
		parent := s.popFrame()
		tracer().Debugf("insert: split propagates into ⟨%s⟩", parent)
		sp = parent.node.insertAsInner(parent.index, sp.key, sp.val, sp.right)
	}
	return ptr
}

// remove deletes the pair at the stack's top, which has to be a key slot,
// and repairs underflow on the way back towards the root. A key slot in an
// inner node is first reduced to the leaf case via intoLeaf. Returns the
// removed value.
func (s *searchStack[K, V]) remove() V {
	s.intoLeaf()
	s.m.length--
	_, val := s.top.node.removeAsLeaf(s.top.index)
	underflow := s.top.node.isUnderfull()
	for {
		if len(s.frames) == 0 {
			if root := s.m.root; !root.isLeaf() && len(root.keys) == 0 {
				// the last merge emptied the root; hoist its lone child
				tracer().Debugf("delete: hoisting lone child of empty root")
				s.m.root = root.children[0]
				s.m.depth--
			}
			return val
		}
		if !underflow {
			return val
		}
		parent := s.popFrame()
		tracer().Debugf("delete: underflow below ⟨%s⟩", parent)
		parent.node.handleUnderflow(parent.index)
		underflow = parent.node.isUnderfull()
	}
}

// intoLeaf turns a stack sealed at a key slot of an inner node into one
// sealed at a leaf: it descends to the smallest pair of the key's right
// subtree (its in-order successor, necessarily in a leaf) and swaps the two
// pairs. Between the swap and the leaf removal the caller performs next,
// the tree is out of order at exactly this one pair; the inconsistency
// never escapes the operation.
func (s *searchStack[K, V]) intoLeaf() {
	if s.top.node.isLeaf() {
		return
	}
	target := s.top
	s.frames = append(s.frames, slot[K, V]{node: target.node, index: target.index + 1})
	n := target.node.children[target.index+1]
	for !n.isLeaf() {
		s.frames = append(s.frames, slot[K, V]{node: n, index: 0})
		n = n.children[0]
	}
	tracer().Debugf("delete: swapping %v with successor %v", target.node.keys[target.index], n.keys[0])
	n.keys[0], target.node.keys[target.index] = target.node.keys[target.index], n.keys[0]
	n.vals[0], target.node.vals[target.index] = target.node.vals[target.index], n.vals[0]
	s.top = slot[K, V]{node: n, index: 0}
}
