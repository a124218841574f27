package channel

import "github.com/holiman/uint256"

// The two functions below construct and commit balance proofs we
// originate ourselves (spec.md §3: "A Lock is created by
// send_lockedtransfer or mirrored by receipt"). Both are internally
// generated operations (spec.md §7 kind 2): a violated precondition here
// is a caller bug and is refused outright via assertPrecondition, never
// returned as a validation error.

// CreateLockedTransfer adds lock to our own pending-lock set and
// produces the SendLockedTransfer event carrying a freshly signed
// balance proof (spec.md §8 scenario 1).
func CreateLockedTransfer(chanState *ChannelState, lock Lock, idGen IDGenerator, sign SignFunc) (Event, error) {
	assertPrecondition(chanState.Status() == StatusOpened, "CreateLockedTransfer called on a non-open channel")

	candidate, inserted := With(chanState.OurState.MerkleTree, lock.LockHash())
	assertPrecondition(inserted, "CreateLockedTransfer: lockhash already pending")
	assertPrecondition(candidate.Width() <= MaximumPendingTransfers, "CreateLockedTransfer: exceeds MAXIMUM_PENDING_TRANSFERS")

	distributable := Distributable(chanState.OurState, chanState.PartnerState)
	assertPrecondition(lock.Amount.Cmp(distributable) <= 0, "CreateLockedTransfer: amount %v exceeds distributable %v", lock.Amount, distributable)

	unsigned := UnsignedBalanceProof{
		Nonce:             chanState.OurState.NextNonce(),
		TransferredAmount: chanState.OurState.transferredAmount(),
		LockedAmount:      mustAdd(chanState.OurState.lockedAmount(), lock.Amount),
		Locksroot:         candidate.Root(),
		ChannelIdentity:   chanState.Identity,
	}
	bp, err := unsigned.Sign(sign)
	if err != nil {
		return nil, err
	}

	chanState.OurState.BalanceProof = &bp
	chanState.OurState.pushMerkleTree(candidate)
	chanState.OurState.LockedLocks[lock.Secrethash] = lock

	return SendLockedTransfer{
		Recipient:         chanState.PartnerState.Address,
		BalanceProof:      bp,
		Lock:              lock,
		MessageIdentifier: idGen(),
	}, nil
}

// CreateUnlock finalizes a lock we originally sent, once we have learned
// its secret: it moves transferred_amount forward by the lock's amount,
// shrinks locked_amount, removes the lock from our Merkle tree, and
// produces the SendBalanceProof event.
func CreateUnlock(chanState *ChannelState, secrethash, secret Hash, idGen IDGenerator, sign SignFunc) (Event, error) {
	assertPrecondition(chanState.Status() == StatusOpened, "CreateUnlock called on a non-open channel")

	lock, ok := lookupLockInPendingMaps(chanState.OurState, secrethash)
	assertPrecondition(ok, "CreateUnlock: unknown secrethash %x", secrethash)

	candidate, removed := Without(chanState.OurState.MerkleTree, lock.LockHash())
	assertPrecondition(removed, "CreateUnlock: lock not present in our Merkle tree")

	unsigned := UnsignedBalanceProof{
		Nonce:             chanState.OurState.NextNonce(),
		TransferredAmount: mustAdd(chanState.OurState.transferredAmount(), lock.Amount),
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

	return SendBalanceProof{
		Recipient:         chanState.PartnerState.Address,
		BalanceProof:      bp,
		Secret:            secret,
		Secrethash:        secrethash,
		MessageIdentifier: idGen(),
	}, nil
}

// mustAdd adds a and b, refusing (as a caller-bug precondition) to
// silently wrap past UINT256_MAX — this only guards an internal
// invariant that the preceding Distributable check already established.
func mustAdd(a, b *uint256.Int) *uint256.Int {
	result, overflow := new(uint256.Int).AddOverflow(a, b)
	assertPrecondition(!overflow, "amount overflow adding %v and %v", a, b)
	return result
}
