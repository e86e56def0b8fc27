package btreemap

import (
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMapCreateEmpty(t *testing.T) {
	m := New[int, string]()
	if m.b != defaultDegree {
		t.Errorf("expected fresh map to have degree %d, has %d", defaultDegree, m.b)
	}
	if m.depth != 1 || !m.root.isLeaf() {
		t.Logf("tree =\n%s", m.Dump())
		t.Error("expected fresh map to be a depth-1 leaf root, isn't")
	}
	if !m.IsEmpty() || m.Len() != 0 {
		t.Error("expected fresh map to be empty, isn't")
	}
	checkMap(t, m)
}

func TestMapCreateWithDegree(t *testing.T) {
	m := New[int, string](Degree(2))
	if m.b != 2 {
		t.Errorf("expected map to have degree 2, has %d", m.b)
	}
	if cap(m.root.keys) != 3 {
		t.Errorf("expected root of degree-2 map to hold up to 3 pairs, holds %d", cap(m.root.keys))
	}
}

func TestMapCreateTreeForTest(t *testing.T) {
	m := createMapForTest()
	if m.root == nil {
		t.Error("cannot create tree for test")
	}
	t.Logf("tree for tests =\n%s", m.Dump())
	checkMap(t, m)
}

// --- Search ----------------------------------------------------------------

func TestTreeFindKeyAndPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := createMapForTest()
	stack := newSearchStack(m)
	if !stack.descend(9) {
		t.Logf("stack = %s", stack)
		t.Error("expected to have found pair with key=9, didn't")
	}
	if len(stack.frames) != 1 {
		t.Logf("stack = %s", stack)
		t.Fatalf("expected path of length 1, is %d", len(stack.frames))
	}
	if stack.top.index != 2 {
		t.Logf("stack = %s", stack)
		t.Errorf("expected slot to be at pos=2 of leaf, is %d", stack.top.index)
	}
}

func TestTreeFindPathToMissingKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := createMapForTest()
	stack := newSearchStack(m)
	if stack.descend(7) {
		t.Error("did not expect to find 7 in tree")
	}
	if !stack.top.node.isLeaf() || stack.top.index != 1 {
		t.Logf("stack = %s", stack)
		t.Errorf("expected edge slot at pos=1 of leaf [6,8,9], is %s", stack.top)
	}
}

func TestMapFindInEmptyMap(t *testing.T) {
	m := New[int, string]()
	v, found := m.Find(7)
	if found {
		t.Error("did not expect to find 7 in empty map")
	}
	if v != "" {
		t.Errorf("expected value for 7 in empty map to be void, is %v", v)
	}
}

func TestMapFind(t *testing.T) {
	m := createMapForTest()
	v, found := m.Find(8)
	if !found {
		t.Error("expected to find 8 in map, didn't")
	}
	if v != "8" {
		t.Errorf("expected value for 8 to be %q, is %q", "8", v)
	}
	if _, found = m.Find(7); found {
		t.Error("did not expect to find 7 in map")
	}
	if !m.Contains(0) || m.Contains(42) {
		t.Error("Contains disagrees with Find")
	}
}

// --- Insert ----------------------------------------------------------------

func TestMapInsertInEmptyMap(t *testing.T) {
	m := New[int, string]()
	if _, replaced := m.Insert(7, "7"); replaced {
		t.Error("did not expect insert into empty map to replace anything")
	}
	if m.depth != 1 || !m.root.isLeaf() {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected map to still be a depth-1 leaf root, isn't")
	}
	if m.Len() != 1 {
		t.Errorf("expected map to have length 1, has %d", m.Len())
	}
	checkMap(t, m)
}

func TestMapInsertInLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := createMapForTest()
	m.Insert(7, "7")
	if m.depth != 2 {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected tree to have depth = 2, has %d", m.depth)
	}
	ch2 := m.root.children[2]
	if len(ch2.keys) != 4 {
		t.Logf("tree =\n%s", m.Dump())
		t.Fatalf("expected node root->2 to be of length=4, isn't")
	}
	if ch2.keys[1] != 7 {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected inserted key[1] to be 7, is %v", ch2.keys[1])
	}
	checkMap(t, m)
}

func TestMapInsertReplacesValue(t *testing.T) {
	m := createMapForTest()
	prev, replaced := m.Insert(8, "eight")
	if !replaced || prev != "8" {
		t.Errorf("expected insert of present key to replace %q, got (%q,%v)", "8", prev, replaced)
	}
	if m.Len() != 9 {
		t.Errorf("expected replacement to keep length 9, is %d", m.Len())
	}
	if v, _ := m.Find(8); v != "eight" {
		t.Errorf("expected value for 8 to be %q, is %q", "eight", v)
	}
	checkMap(t, m)
}

func TestMapInsertWithSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := createMapForTest()
	m.Insert(7, "7")
	m.Insert(10, "10")
	m.Insert(11, "11") // leaf [6…10] is full now, this has to split it
	if m.depth != 2 {
		t.Logf("tree =\n%s", m.Dump())
		t.Fatalf("unexpected tree shape after inserts of 7, 10, 11")
	}
	if len(m.root.children) != 4 {
		t.Logf("tree =\n%s", m.Dump())
		t.Fatalf("expected 4 root children, have %d", len(m.root.children))
	}
	if m.root.keys[2] != 8 {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected promoted median to be 8, is %v", m.root.keys[2])
	}
	checkMap(t, m)
}

func TestMapInsertSplitsRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := New[int, int](Degree(2))
	for i := 1; i <= 3; i++ {
		m.Insert(i, i)
	}
	if m.depth != 1 {
		t.Fatalf("expected 3 pairs to still fit the root, depth is %d", m.depth)
	}
	m.Insert(4, 4)
	if m.depth != 2 || m.root.isLeaf() {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected 4th insert to split the root and deepen the tree")
	}
	checkMap(t, m)
}

// --- Delete ----------------------------------------------------------------

func TestMapDeleteFromEmptyMap(t *testing.T) {
	m := New[int, string]()
	if _, removed := m.Delete(7); removed {
		t.Error("did not expect to remove anything from empty map")
	}
	checkMap(t, m)
}

func TestMapDeleteFromLeaf(t *testing.T) {
	m := createMapForTest()
	v, removed := m.Delete(9)
	if !removed || v != "9" {
		t.Errorf("expected to remove 9 with value %q, got (%q,%v)", "9", v, removed)
	}
	if m.Len() != 8 {
		t.Errorf("expected length 8 after removal, is %d", m.Len())
	}
	checkMap(t, m)
}

func TestMapDeleteAndMerge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := createMapForTest()
	m.Delete(9)
	m.Delete(8) // leaf [6] underflows, no sibling can spare => merge
	if len(m.root.children) != 2 {
		t.Logf("tree =\n%s", m.Dump())
		t.Fatalf("expected children 1 and 2 of root to be merged, haven't")
	}
	if len(m.root.children[1].keys) != 4 {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected merged child to hold [3,4,5,6], holds %s", m.root.children[1])
	}
	checkMap(t, m)
}

func TestMapDeleteInnerKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := createMapForTest()
	v, removed := m.Delete(5) // 5 sits in the root; swapped with successor 6
	if !removed || v != "5" {
		t.Errorf("expected to remove 5 with value %q, got (%q,%v)", "5", v, removed)
	}
	if m.root.keys[1] != 6 {
		t.Logf("tree =\n%s", m.Dump())
		t.Errorf("expected successor 6 as new separator, have %v", m.root.keys[1])
	}
	checkMap(t, m)
}

func TestMapDeleteHoistsRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "btreemap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := New[int, int](Degree(2))
	for i := 1; i <= 4; i++ {
		m.Insert(i, i)
	}
	if m.depth != 2 {
		t.Fatalf("expected depth 2 before deletions, is %d", m.depth)
	}
	for i := 1; i <= 4; i++ {
		m.Delete(i)
		checkMap(t, m)
	}
	if m.depth != 1 || !m.root.isLeaf() || m.Len() != 0 {
		t.Logf("tree =\n%s", m.Dump())
		t.Error("expected emptied map to be a depth-1 leaf root again, isn't")
	}
}

func TestMapDump(t *testing.T) {
	m := createMapForTest()
	dump := m.Dump()
	if !strings.HasPrefix(dump, "Map(size=9 depth=2 b=3)") {
		t.Errorf("unexpected dump header: %q", dump)
	}
	if !strings.Contains(dump, "[2,5]") {
		t.Errorf("expected dump to contain root [2,5]:\n%s", dump)
	}
}

// ---------------------------------------------------------------------------

func createMapForTest() *Map[int, string] { // tree with keys 0…9, without 7
	root := newInner[int, string](3)
	addPairs(root, 2, 5)

	child0 := newLeaf[int, string](3)
	addPairs(child0, 0, 1)

	child1 := newLeaf[int, string](3)
	addPairs(child1, 3, 4)

	child2 := newLeaf[int, string](3)
	addPairs(child2, 6, 8, 9) // 7 is missing

	root.children = append(root.children, child0, child1, child2)
	return &Map[int, string]{root: root, length: 9, depth: 2, b: 3}
}

func addPairs(n *node[int, string], keys ...int) {
	for _, key := range keys {
		n.keys = append(n.keys, key)
		n.vals = append(n.vals, strconv.Itoa(key))
	}
}
