package channel

import (
	"testing"

	gocrypto "github.com/ethereum/go-ethereum/crypto"
)

func leafHash(label string) Hash {
	return Hash(gocrypto.Keccak256Hash([]byte(label)))
}

func TestMerkleTreeEmptyRoot(t *testing.T) {
	if got := emptyTree.Root(); got != EmptyRoot {
		t.Fatalf("empty tree root = %x, want %x", got, EmptyRoot)
	}
	if w := emptyTree.Width(); w != 0 {
		t.Fatalf("empty tree width = %d, want 0", w)
	}
}

func TestMerkleTreeWithWithoutRoundTrip(t *testing.T) {
	h1 := leafHash("lock-1")

	withTree, ok := With(emptyTree, h1)
	if !ok {
		t.Fatalf("With on empty tree should succeed")
	}
	if withTree.Width() != 1 {
		t.Fatalf("width = %d, want 1", withTree.Width())
	}

	backOut, ok := Without(withTree, h1)
	if !ok {
		t.Fatalf("Without should succeed for a present leaf")
	}
	if backOut.Root() != emptyTree.Root() {
		t.Fatalf("round-tripped root = %x, want %x", backOut.Root(), emptyTree.Root())
	}
}

func TestMerkleTreeDuplicateInsertRejected(t *testing.T) {
	h1 := leafHash("lock-1")
	tree, _ := With(emptyTree, h1)

	if _, ok := With(tree, h1); ok {
		t.Fatalf("inserting a duplicate lockhash must fail")
	}
}

func TestMerkleTreeRemoveAbsentRejected(t *testing.T) {
	h1 := leafHash("lock-1")
	if _, ok := Without(emptyTree, h1); ok {
		t.Fatalf("removing an absent lockhash must fail")
	}
}

func TestMerkleTreeRootChangesWithMembership(t *testing.T) {
	h1 := leafHash("lock-1")
	h2 := leafHash("lock-2")

	t1, _ := With(emptyTree, h1)
	t2, _ := With(t1, h2)

	if t1.Root() == t2.Root() {
		t.Fatalf("adding a leaf must change the root")
	}
	if t2.Width() != 2 {
		t.Fatalf("width = %d, want 2", t2.Width())
	}

	back, _ := Without(t2, h2)
	if back.Root() != t1.Root() {
		t.Fatalf("removing the last-added leaf should restore the prior root")
	}
}
