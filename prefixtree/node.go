package prefixtree

import (
	"fmt"
	"sync/atomic"
)

// Node is a single entry of the tree: an immutable key identifying it among
// its siblings, an atomic counter and an atomically published child
// collection. Nodes are created through At/AtIn only and are never removed.
type Node struct {
	key      int64
	value    atomic.Int64
	children atomic.Pointer[children]
}

// Key returns the key this node was created under.
func (n *Node) Key() int64 { return n.key }

// Value atomically reads the counter.
func (n *Node) Value() int64 { return n.value.Load() }

// SetValue atomically stores v into the counter.
func (n *Node) SetValue(v int64) { n.value.Store(v) }

// IncValue atomically increments the counter and returns the new value.
// Concurrent increments never lose an update.
func (n *Node) IncValue() int64 { return n.value.Add(1) }

// At returns the unique child node for the key, creating it if absent.
// It is safe to call from any number of goroutines, never blocks, and all
// callers racing on the same key converge on the same node.
func (n *Node) At(key int64) *Node {
	return n.AtIn(HeapAllocator{}, key)
}

// AtIn is At with an explicit node allocator, for callers that pre-reserve
// node storage (see PoolAllocator). A node claimed from the allocator for a
// CAS that loses its slot is abandoned, never recycled.
func (n *Node) AtIn(alloc Allocator, key int64) *Node {
	n.ensureChildren()
	for {
		ch := n.children.Load()
		if ch.kind == kindLinear {
			if child := n.getOrAddLinear(alloc, key, ch); child != nil {
				return child
			}
			// every slot is taken
			n.growLinear(ch)
		} else {
			if child := n.getOrAddHash(alloc, key, ch); child != nil {
				return child
			}
			// too many probe skips, or the table is frozen
			n.growHash(ch)
		}
	}
}

// ensureChildren installs the initial linear collection. Losing the CAS is
// fine - only the presence of a collection matters, not who installed it.
func (n *Node) ensureChildren() {
	if n.children.Load() == nil {
		n.children.CompareAndSwap(nil, newChildren(kindLinear, initialLinearSize))
	}
}

// getOrAddLinear scans the array for the key, claiming the first empty slot
// on a miss. Returns nil when the array is full, which makes the caller
// grow it and retry.
func (n *Node) getOrAddLinear(alloc Allocator, key int64, ch *children) *Node {
	for i := 0; i < ch.length(); i++ {
		child := ch.load(i)
		if child == nil {
			claimed := alloc.NewNode(key)
			if ch.cas(i, nil, claimed) {
				return claimed
			}
			// lost the slot - possibly to the same key
			if child = ch.load(i); child.key == key {
				return child
			}
			continue
		}
		if child.key == key {
			return child
		}
	}
	return nil
}

// growLinear swaps a full linear array for a doubled one, or for the
// initial hashed table once the linear cap is reached. The copy is done on
// a private array; if the publishing CAS loses, the copy is discarded and
// At retries against the winner.
func (n *Node) growLinear(old *children) {
	var bigger *children
	if old.length() < maxLinearSize {
		bigger = newChildren(kindLinear, 2*old.length())
		for i := 0; i < old.length(); i++ {
			bigger.store(i, old.load(i))
		}
	} else {
		bigger = newChildren(kindHashed, initialHashSize)
		for i := 0; i < old.length(); i++ {
			bigger.insertLocal(old.load(i))
		}
	}
	n.children.CompareAndSwap(old, bigger)
}

// getOrAddHash probes the table from the key's slot. Empty slots are
// claimed by CAS; a failed claim re-examines the same slot, since the
// winner may hold the wanted key. Frozen slots are skipped - they mean a
// resize is in flight and the retry will land in the replacement. Returns
// nil after the probe budget is spent, which makes the caller resize.
func (n *Node) getOrAddHash(alloc Allocator, key int64, ch *children) *Node {
	i := slotIndex(key, ch.length())
	skips := 0
	for {
		child := ch.load(i)
		if child == nil {
			claimed := alloc.NewNode(key)
			if ch.cas(i, nil, claimed) {
				return claimed
			}
			continue
		}
		if child != frozen && child.key == key {
			return child
		}
		i = (i + 1) % ch.length()
		skips++
		if skips > maxHashSkips {
			return nil
		}
	}
}

// growHash freezes the current table, copies the surviving nodes into a
// doubled one and publishes it. Several goroutines may perform the copy
// redundantly; the single CAS on the children pointer picks one result and
// the rest are discarded.
func (n *Node) growHash(old *children) {
	old.freeze()
	// the old table cannot change from here on
	bigger := newChildren(kindHashed, 2*old.length())
	for i := 0; i < old.length(); i++ {
		if child := old.load(i); child != frozen {
			bigger.insertLocal(child)
		}
	}
	n.children.CompareAndSwap(old, bigger)
}

// TopDown walks the subtree under n in pre-order, threading a caller
// context through the descent: consume sees every node's counter, extend
// derives a child context from the parent's and the child key. Sibling
// order is physical slot order of whichever collection is observed, so it
// is not insertion order and not stable while the node is growing. The walk
// never blocks writers; racing a resize it sees a consistent snapshot which
// may miss nodes inserted after the snapshot was taken.
func TopDown[C any](n *Node, ctx C, extend func(C, int64) C, consume func(C, int64)) {
	snapshot := n.children.Load()
	consume(ctx, n.value.Load())
	if snapshot == nil {
		return
	}
	for i := 0; i < snapshot.length(); i++ {
		child := snapshot.load(i)
		if child == nil || child == frozen {
			continue
		}
		TopDown(child, extend(ctx, child.key), extend, consume)
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("Node<%d>", n.Value())
}
