package channel

import "github.com/nettinglabs/netting-core/crypto"

// MerkleTree is the layered representation of a set of pending-lock
// hashes. Leaf order follows insertion order of the current leaf set;
// recomputation is from scratch on every mutation (spec.md §4.A) — no
// incremental update is attempted, mirroring the teacher's preference for
// simple, auditable recomputation over the commitment chain
// (lnwallet/channel.go's fetchCommitmentView rebuilds the full view on
// every call rather than patching the prior one).
type MerkleTree struct {
	leaves []Hash
	layers [][]Hash
}

// emptyTree is the canonical empty-leaf-set tree, returned by
// NewMerkleTree (for no leaves) and Without (when the last leaf goes)
// instead of allocating a fresh one each time.
var emptyTree = &MerkleTree{}

// NewMerkleTree builds a tree from an explicit ordered leaf list. Used by
// restoreCommitState-style reconstruction from persisted state.
func NewMerkleTree(leaves []Hash) *MerkleTree {
	if len(leaves) == 0 {
		return emptyTree
	}
	t := &MerkleTree{leaves: append([]Hash(nil), leaves...)}
	t.layers = computeLayers(t.leaves)
	return t
}

// Width returns the number of leaves (pending locks) in the tree.
func (t *MerkleTree) Width() int {
	if t == nil {
		return 0
	}
	return len(t.leaves)
}

// Root returns the Merkle root, or EmptyRoot for the empty set.
func (t *MerkleTree) Root() Hash {
	if t == nil || len(t.layers) == 0 {
		return EmptyRoot
	}
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Contains reports whether lockhash is a current leaf.
func (t *MerkleTree) Contains(lockhash Hash) bool {
	if t == nil {
		return false
	}
	for _, l := range t.leaves {
		if l == lockhash {
			return true
		}
	}
	return false
}

// Leaves returns the current leaf set in insertion order. Callers must
// not mutate the returned slice.
func (t *MerkleTree) Leaves() []Hash {
	if t == nil {
		return nil
	}
	return t.leaves
}

// With returns a new tree with lockhash appended as the newest leaf, or
// (nil, false) if lockhash is already present.
func With(t *MerkleTree, lockhash Hash) (*MerkleTree, bool) {
	if t.Contains(lockhash) {
		return nil, false
	}
	leaves := append(append([]Hash(nil), t.Leaves()...), lockhash)
	return NewMerkleTree(leaves), true
}

// Without returns a new tree with lockhash removed, EmptyRoot's tree if it
// was the last leaf, or (nil, false) if lockhash is not present.
func Without(t *MerkleTree, lockhash Hash) (*MerkleTree, bool) {
	if !t.Contains(lockhash) {
		return nil, false
	}
	leaves := make([]Hash, 0, t.Width()-1)
	for _, l := range t.Leaves() {
		if l != lockhash {
			leaves = append(leaves, l)
		}
	}
	if len(leaves) == 0 {
		return emptyTree, true
	}
	return NewMerkleTree(leaves), true
}

// computeLayers builds the full layer stack bottom-up: each layer pairs
// adjacent siblings and hashes them together; an odd one out is carried up
// unchanged (duplicated hashing is avoided so single-lock trees are stable
// across With/Without round trips).
func computeLayers(leaves []Hash) [][]Hash {
	layers := [][]Hash{leaves}
	cur := leaves
	for len(cur) > 1 {
		next := make([]Hash, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			if i+1 < len(cur) {
				next = append(next, hashPair(cur[i], cur[i+1]))
			} else {
				next = append(next, cur[i])
			}
		}
		layers = append(layers, next)
		cur = next
	}
	return layers
}

func hashPair(left, right Hash) Hash {
	return Hash(crypto.Keccak256(left[:], right[:]))
}
