package prefixtree

// Tree holds the root node. The root is an ordinary node with key 0 whose
// counter is usable like any other.
type Tree struct {
	root  *Node
	alloc Allocator
}

// New creates a tree whose nodes are heap-allocated one by one.
func New() *Tree {
	return NewIn(HeapAllocator{})
}

// NewIn creates a tree drawing every node, the root included, from the
// given allocator. Paths descended with Tree.At keep using it.
func NewIn(alloc Allocator) *Tree {
	return &Tree{
		root:  alloc.NewNode(0),
		alloc: alloc,
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// At descends the whole key sequence from the root, creating missing nodes
// along the way with the tree's allocator, and returns the node the path
// addresses. At() with no keys returns the root.
func (t *Tree) At(keys ...int64) *Node {
	node := t.root
	for _, key := range keys {
		node = node.AtIn(t.alloc, key)
	}
	return node
}
