package btreemap

import (
	"fmt"

	tp "github.com/xlab/treeprint"
	"golang.org/x/exp/constraints"
)

// Dump renders the node structure of the map, each node printed as its key
// list. Meant for debugging and test output, not for users of the map.
func (m *Map[K, V]) Dump() string {
	header := fmt.Sprintf("Map(size=%d depth=%d b=%d)\n", m.length, m.depth, m.b)
	p := tp.New()
	ppt(p, m.root)
	return header + p.String()
}

func ppt[K constraints.Ordered, V any](p tp.Tree, n *node[K, V]) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		p.AddNode(n.String())
		return
	}
	branch := p.AddBranch(n.String())
	for _, ch := range n.children {
		ppt(branch, ch)
	}
}
