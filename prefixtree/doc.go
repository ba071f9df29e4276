// Package prefixtree defines a thread-safe, lock-free prefix tree mapping
// sequences of int64 keys to int64 counters.
//
// A path of keys descended from the root addresses a unique Node, and each
// Node carries an atomic counter that any number of goroutines may read,
// set and increment concurrently. The intended use is high-contention
// accumulation - tallying counts along shared key prefixes from many
// producers - where a mutex would serialize the hot path.
//
// Structure:
// ---------
//
//   - Tree  - owns the root Node (key 0 by convention);
//
//   - Node  - an immutable key, an atomic counter and an atomically
//     published handle to its children collection;
//
//   - children - one snapshot of a node's child set, in one of two
//     representations switched over the node's lifetime:
//
//     linear:  [ n0 | n1 | nil | nil ]           scanned, 2 slots doubling to 8
//     hashed:  [ n3 | nil | n7 | frozen | .. ]   probed, 16 slots doubling on resize
//
// All child insertion goes through Node.At (get-or-create): slots only ever
// transition nil -> node through a CAS, so two goroutines racing to create
// the same key converge on whichever node won the slot. A full collection
// is never grown in place - a strictly larger one is filled privately and
// swapped in with a single CAS on the owning node, so at most one
// collection is current at any instant and losing copies are discarded.
//
// Resizing a hashed collection first freezes it: every still-empty slot is
// CASed to a sentinel that is never read as data, after which the table
// contents cannot change and can be copied to the replacement without
// coordination. An insert that runs into frozen slots retries against the
// replacement once it is published.
//
// There are no locks anywhere and no operation blocks: a goroutine whose
// CAS fails has proof that another goroutine made progress. There is also
// no deletion - nodes are immortal and growth is monotonic, which is what
// makes the cheap publication rules above sufficient.
//
// Traversal (TopDown) is a lock-free snapshot reader: it never blocks
// writers, but a walk racing live inserts is only guaranteed a consistent
// view, not the most recent one. Quiesce the tree first if completeness
// matters.
package prefixtree
