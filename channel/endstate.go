package channel

import "github.com/holiman/uint256"

// unlockedLock pairs a Lock with the secret that claims it.
type unlockedLock struct {
	Lock   Lock
	Secret Hash
}

// PutUnlockedLock inserts lock/secret into dst (either of an EndState's
// UnlockedLocks or OnchainUnlockedLocks maps) keyed by the lock's
// secrethash. Exists so a persistence layer outside this package can
// rebuild an EndState without needing to name the unexported
// unlockedLock type directly.
func PutUnlockedLock(dst map[Hash]unlockedLock, lock Lock, secret Hash) {
	dst[lock.Secrethash] = unlockedLock{Lock: lock, Secret: secret}
}

// UnlockedLockParts returns the lock and claiming secret out of a value
// from an UnlockedLocks/OnchainUnlockedLocks map, for a persistence layer
// walking those maps without naming unlockedLock.
func UnlockedLockParts(ul unlockedLock) (Lock, Hash) {
	return ul.Lock, ul.Secret
}

// EndState is one side's view of a channel: its on-chain-confirmed
// contract balance, its withdrawals, the latest balance proof it
// received (nil until the first one arrives), its Merkle tree of pending
// locks, and the three lock maps that partition pending claims by secret
// status (spec.md §3, invariants 5 and 6).
type EndState struct {
	Address Address

	ContractBalance *uint256.Int
	TotalWithdraw   *uint256.Int

	// BalanceProof is the latest balance proof received from this side;
	// nil for a fresh end-state that has not yet sent/received one.
	BalanceProof *BalanceProof

	MerkleTree *MerkleTree

	// LockedLocks holds locks with no known secret.
	LockedLocks map[Hash]Lock
	// UnlockedLocks holds locks whose secret has been revealed
	// off-chain but not yet registered on-chain.
	UnlockedLocks map[Hash]unlockedLock
	// OnchainUnlockedLocks holds locks whose secret has been registered
	// on-chain.
	OnchainUnlockedLocks map[Hash]unlockedLock

	// OnchainLocksroot is the locksroot most recently confirmed via a
	// ContractReceiveChannelSettled state change, used to drive channel
	// disposal after batch unlock.
	OnchainLocksroot Hash

	// recentMerkleTrees keeps the last merkleTreeHistoryLength trees
	// (current one included, newest last). ValidateUnlock and
	// ValidateLockExpired consult it via treeForRoot only when the
	// candidate tree computed from the current tree doesn't match the
	// received locksroot, recognizing a balance proof whose locksroot
	// was committed once before and has since been superseded by a
	// narrow race between two in-flight updates (SPEC_FULL.md §3,
	// recovered from original_source/raiden/transfer/channel.py).
	recentMerkleTrees []*MerkleTree
}

// NewEndState constructs a fresh end-state for a participant that has not
// yet exchanged any balance proof.
func NewEndState(addr Address, contractBalance *uint256.Int) *EndState {
	return &EndState{
		Address:              addr,
		ContractBalance:      contractBalance,
		TotalWithdraw:        uint256.NewInt(0),
		MerkleTree:           emptyTree,
		LockedLocks:          make(map[Hash]Lock),
		UnlockedLocks:        make(map[Hash]unlockedLock),
		OnchainUnlockedLocks: make(map[Hash]unlockedLock),
	}
}

// NextNonce returns the nonce a fresh balance proof from this end-state
// must carry: 1 if none has been recorded yet (0 is reserved), otherwise
// the previous nonce + 1 (spec.md §3 invariant 4).
func (e *EndState) NextNonce() uint64 {
	if e.BalanceProof == nil {
		return 1
	}
	return e.BalanceProof.Nonce + 1
}

// pushMerkleTree records t as the current tree, retaining history per
// merkleTreeHistoryLength.
func (e *EndState) pushMerkleTree(t *MerkleTree) {
	e.MerkleTree = t
	e.recentMerkleTrees = append(e.recentMerkleTrees, t)
	if len(e.recentMerkleTrees) > merkleTreeHistoryLength {
		e.recentMerkleTrees = e.recentMerkleTrees[len(e.recentMerkleTrees)-merkleTreeHistoryLength:]
	}
}

// treeForRoot returns the current or a recent-history tree whose root
// equals root, or nil if none match.
func (e *EndState) treeForRoot(root Hash) *MerkleTree {
	if e.MerkleTree.Root() == root {
		return e.MerkleTree
	}
	for i := len(e.recentMerkleTrees) - 1; i >= 0; i-- {
		if e.recentMerkleTrees[i].Root() == root {
			return e.recentMerkleTrees[i]
		}
	}
	return nil
}

// AmountLocked sums the amounts across all three lock maps (component F).
func (e *EndState) AmountLocked() *uint256.Int {
	total := uint256.NewInt(0)
	for _, l := range e.LockedLocks {
		total.Add(total, l.Amount)
	}
	for _, ul := range e.UnlockedLocks {
		total.Add(total, ul.Lock.Amount)
	}
	for _, ul := range e.OnchainUnlockedLocks {
		total.Add(total, ul.Lock.Amount)
	}
	return total
}

// transferredAmount returns the transferred_amount of the latest balance
// proof, or zero if none exists yet.
func (e *EndState) transferredAmount() *uint256.Int {
	if e.BalanceProof == nil {
		return uint256.NewInt(0)
	}
	return e.BalanceProof.TransferredAmount
}

// lockedAmount returns the locked_amount of the latest balance proof, or
// zero if none exists yet.
func (e *EndState) lockedAmount() *uint256.Int {
	if e.BalanceProof == nil {
		return uint256.NewInt(0)
	}
	return e.BalanceProof.LockedAmount
}
