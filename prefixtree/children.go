package prefixtree

import (
	"math/bits"
	"sync/atomic"
)

const (
	initialLinearSize = 2
	maxLinearSize     = 8
	// must be >= maxLinearSize, otherwise a converted linear array
	// cannot fit and At loops forever
	initialHashSize = 16
	maxHashSkips    = 10

	hashMul uint64 = 0x9e3775cd9e3775cd
)

// frozen marks a hash slot as permanently closed to writes while its table
// is being copied into a bigger one. It is compared by identity only and
// never escapes the package; its key and counter are never read, so every
// int64 remains a valid user key.
var frozen = new(Node)

type childrenKind uint8

const (
	kindLinear childrenKind = iota
	kindHashed
)

// children is one snapshot of a node's child collection. A slot only ever
// transitions nil -> node (or nil -> frozen in a hashed table mid-resize).
// The slot array is never grown in place: a bigger children is filled
// privately and CASed over the old one on the owning node.
type children struct {
	kind  childrenKind
	slots []atomic.Pointer[Node]
}

func newChildren(kind childrenKind, length int) *children {
	return &children{
		kind:  kind,
		slots: make([]atomic.Pointer[Node], length),
	}
}

func (c *children) length() int { return len(c.slots) }

func (c *children) load(i int) *Node { return c.slots[i].Load() }

func (c *children) cas(i int, old, new *Node) bool {
	return c.slots[i].CompareAndSwap(old, new)
}

// store writes a slot directly. Only valid while the array is still private
// to the goroutine filling a replacement - published arrays take CAS only.
func (c *children) store(i int, n *Node) { c.slots[i].Store(n) }

// insertLocal places a node into a private (not yet published) hashed
// table. No CAS: the grow protocol guarantees nobody else can observe the
// table, and a frozen source guarantees no key is inserted twice.
func (c *children) insertLocal(n *Node) {
	i := slotIndex(n.key, c.length())
	for c.load(i) != nil {
		i = (i + 1) % c.length()
	}
	c.store(i, n)
}

// freeze closes every still-empty slot with the frozen sentinel. Afterwards
// each slot holds either frozen or a node forever, so the table contents
// can be copied without any further coordination. Failed CASes mean a
// racing insert won the slot first - that node is then copied like any
// other.
func (c *children) freeze() {
	for i := range c.slots {
		if c.load(i) == nil {
			c.cas(i, nil, frozen)
		}
	}
}

// slotIndex spreads a key over a table of the given length: multiply,
// reverse bytes, multiply again, fold and mask to 31 bits. The constant is
// odd so both multiplications permute the 64-bit space.
func slotIndex(key int64, length int) int {
	v := uint64(key) * hashMul
	v = bits.ReverseBytes64(v)
	v *= hashMul
	h := uint32(v^(v>>32)) & 0x7fffffff
	return int(h % uint32(length))
}
