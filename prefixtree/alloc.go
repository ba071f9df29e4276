package prefixtree

import (
	"math/bits"
	"sync/atomic"

	"github.com/hideo55/go-popcount"
)

// Allocator produces the nodes the tree inserts. At uses a HeapAllocator;
// producers on a hot path can thread a PoolAllocator through AtIn / NewIn
// to amortize the per-node allocations.
type Allocator interface {
	NewNode(key int64) *Node
}

// HeapAllocator allocates each node individually.
type HeapAllocator struct{}

func (HeapAllocator) NewNode(key int64) *Node {
	return &Node{key: key}
}

const poolChunkSize = 64

// chunk is one pre-zeroed block of nodes. Slots are claimed by setting the
// matching bit of the used bitmap with a CAS; next links to the previously
// filled chunk and is immutable after publication.
type chunk struct {
	next  *chunk
	used  atomic.Uint64
	nodes [poolChunkSize]Node
}

// PoolAllocator hands out nodes from chunks of 64, claiming a slot per
// allocation with a single CAS on the chunk's bitmap and pushing a fresh
// chunk when the head fills up. It is lock-free like the tree itself and
// never reclaims: the tree keeps nodes forever, so the pool only amortizes
// allocation, it does not recycle. Slots left unclaimed in a chunk that
// loses the push race stay unused.
//
// A PoolAllocator must not be copied after first use and must not be shared
// between trees unless mixing their nodes in one pool is acceptable.
type PoolAllocator struct {
	head atomic.Pointer[chunk]
}

func NewPoolAllocator() *PoolAllocator {
	var p PoolAllocator
	p.head.Store(&chunk{})
	return &p
}

func (p *PoolAllocator) NewNode(key int64) *Node {
	for {
		c := p.head.Load()
		for {
			claimed := c.used.Load()
			if claimed == ^uint64(0) {
				break // chunk is full
			}
			i := bits.TrailingZeros64(^claimed)
			if c.used.CompareAndSwap(claimed, claimed|uint64(1)<<i) {
				node := &c.nodes[i]
				node.key = key
				return node
			}
		}
		// publish a fresh chunk; losing the race just means
		// somebody else already pushed one
		p.head.CompareAndSwap(c, &chunk{next: c})
	}
}

// Allocated reports how many nodes have been claimed from the pool.
func (p *PoolAllocator) Allocated() int {
	var total uint64
	for c := p.head.Load(); c != nil; c = c.next {
		total += popcount.Count(c.used.Load())
	}
	return int(total)
}

// Chunks reports how many chunks the pool has reserved so far.
func (p *PoolAllocator) Chunks() int {
	var total int
	for c := p.head.Load(); c != nil; c = c.next {
		total++
	}
	return total
}
