package channel

import "github.com/holiman/uint256"

// SignFunc produces a signature over packed bytes; supplied by the
// caller's wallet/keystore, mirroring spec.md §6's recover() being the
// dual of an unspecified sign() collaborator.
type SignFunc func([]byte) ([]byte, error)

// IDGenerator yields fresh message identifiers. Threaded through instead
// of a shared global, per spec.md §5 ("the pseudo-random generator...
// is threaded through the call stack; its state mutates and is not
// shared").
type IDGenerator func() uint64

// RegisterOffchainSecret moves the lock identified by secrethash from
// LockedLocks to UnlockedLocks on both end-states, carrying the secret.
// Idempotent: calling it again after the lock is already unlocked is a
// no-op (spec.md §4.C).
func RegisterOffchainSecret(chanState *ChannelState, secret, secrethash Hash) {
	registerOffchainSecretOnEnd(chanState.OurState, secret, secrethash)
	registerOffchainSecretOnEnd(chanState.PartnerState, secret, secrethash)
}

func registerOffchainSecretOnEnd(end *EndState, secret, secrethash Hash) {
	if _, already := end.UnlockedLocks[secrethash]; already {
		return
	}
	lock, ok := end.LockedLocks[secrethash]
	if !ok {
		return
	}
	delete(end.LockedLocks, secrethash)
	end.UnlockedLocks[secrethash] = unlockedLock{Lock: lock, Secret: secret}
}

// RegisterOnchainSecret moves the lock identified by secrethash to
// OnchainUnlockedLocks on both end-states, unless the lock had already
// expired before revealBlock (in which case the reveal is ignored). When
// deleteLock is true the lock is also evicted from LockedLocks and
// UnlockedLocks; otherwise it stays visible there so a legitimate
// in-flight off-chain unlock can still validate against it (spec.md
// §4.C).
func RegisterOnchainSecret(chanState *ChannelState, secret, secrethash Hash, revealBlock uint64, deleteLock bool) {
	registerOnchainSecretOnEnd(chanState.OurState, secret, secrethash, revealBlock, deleteLock)
	registerOnchainSecretOnEnd(chanState.PartnerState, secret, secrethash, revealBlock, deleteLock)
}

func registerOnchainSecretOnEnd(end *EndState, secret, secrethash Hash, revealBlock uint64, deleteLock bool) {
	lock, ok := lookupLock(end, secrethash)
	if !ok {
		return
	}
	if lock.Expiration < revealBlock {
		// Reveal arrived too late: the chain confirmed it after the
		// lock had already expired.
		return
	}

	end.OnchainUnlockedLocks[secrethash] = unlockedLock{Lock: lock, Secret: secret}

	if deleteLock {
		delete(end.LockedLocks, secrethash)
		delete(end.UnlockedLocks, secrethash)
	}
}

// lookupLock finds secrethash's Lock in whichever of the three maps
// currently holds it.
func lookupLock(end *EndState, secrethash Hash) (Lock, bool) {
	if l, ok := end.LockedLocks[secrethash]; ok {
		return l, true
	}
	if ul, ok := end.UnlockedLocks[secrethash]; ok {
		return ul.Lock, true
	}
	if ul, ok := end.OnchainUnlockedLocks[secrethash]; ok {
		return ul.Lock, true
	}
	return Lock{}, false
}

// EventsForExpiredLock evicts an expired lock from our own pending-lock
// maps and produces a SendLockExpired carrying a fresh balance proof:
// nonce+1, locked_amount shrunk by the lock's amount, and the locksroot
// of our tree without the lock. Only callable while the channel is
// OPENED (spec.md §4.C).
func EventsForExpiredLock(chanState *ChannelState, secrethash Hash, idGen IDGenerator, sign SignFunc) ([]Event, error) {
	assertPrecondition(chanState.Status() == StatusOpened, "EventsForExpiredLock called on a non-open channel")

	lock, ok := lookupLockInPendingMaps(chanState.OurState, secrethash)
	assertPrecondition(ok, "EventsForExpiredLock called for unknown secrethash %x", secrethash)

	candidate, removed := Without(chanState.OurState.MerkleTree, lock.LockHash())
	assertPrecondition(removed, "EventsForExpiredLock: lock not present in our Merkle tree")

	unsigned := UnsignedBalanceProof{
		Nonce:             chanState.OurState.NextNonce(),
		TransferredAmount: chanState.OurState.transferredAmount(),
		LockedAmount:      mustSub(chanState.OurState.lockedAmount(), lock.Amount),
		Locksroot:         candidate.Root(),
		ChannelIdentity:   chanState.Identity,
	}
	bp, err := unsigned.Sign(sign)
	if err != nil {
		return nil, err
	}

	chanState.OurState.BalanceProof = &bp
	chanState.OurState.pushMerkleTree(candidate)
	delete(chanState.OurState.LockedLocks, secrethash)
	delete(chanState.OurState.UnlockedLocks, secrethash)

	return []Event{SendLockExpired{
		Recipient:         chanState.PartnerState.Address,
		BalanceProof:      bp,
		Secrethash:        secrethash,
		MessageIdentifier: idGen(),
	}}, nil
}

// lookupLockInPendingMaps finds secrethash in LockedLocks or
// UnlockedLocks only (not OnchainUnlockedLocks — an on-chain-confirmed
// secret cannot expire).
func lookupLockInPendingMaps(end *EndState, secrethash Hash) (Lock, bool) {
	if l, ok := end.LockedLocks[secrethash]; ok {
		return l, true
	}
	if ul, ok := end.UnlockedLocks[secrethash]; ok {
		return ul.Lock, true
	}
	return Lock{}, false
}

func mustSub(a, b *uint256.Int) *uint256.Int {
	result, underflow := subClamped(a, b)
	assertPrecondition(!underflow, "amount underflow subtracting %v from %v", b, a)
	return result
}
