package channel

import "github.com/nettinglabs/netting-core/crypto"

// The four message-receipt handlers below are called directly by the
// surrounding payment state machine rather than through StateTransition
// (spec.md §4.E), but share its commit shape exactly: validate via the
// component-B checks, and on success commit the new balance proof and
// Merkle tree to PartnerState in one step, update the corresponding lock
// map, and emit a SendProcessed acknowledgement; on failure emit the
// matching EventInvalidReceived* diagnostic and leave state untouched.
//
// Every received balance proof is, by construction, signed by the
// partner and is therefore always committed to PartnerState — whichever
// side sent a message owns the balance proof it carries.

// ReceiveLockedTransfer validates and, on success, commits an incoming
// LockedTransfer.
func ReceiveLockedTransfer(chanState *ChannelState, received BalanceProof, lock Lock, idGen IDGenerator, recoverer crypto.Recoverer) []Event {
	candidate, err := ValidateLockedTransfer(received, chanState, chanState.PartnerState, chanState.OurState, lock, recoverer)
	if err != nil {
		return []Event{EventInvalidReceivedLockedTransfer{Reason: err.Error()}}
	}

	chanState.PartnerState.BalanceProof = &received
	chanState.PartnerState.pushMerkleTree(candidate)
	chanState.PartnerState.LockedLocks[lock.Secrethash] = lock

	return []Event{SendProcessed{
		Recipient:         chanState.PartnerState.Address,
		MessageIdentifier: idGen(),
	}}
}

// ReceiveUnlock validates and, on success, commits an incoming Unlock,
// removing the lock from every map on the partner side (spec.md §4.B,
// §8 scenario 2).
func ReceiveUnlock(chanState *ChannelState, received BalanceProof, lockhash Hash, lock Lock, idGen IDGenerator, recoverer crypto.Recoverer) []Event {
	candidate, err := ValidateUnlock(received, chanState, chanState.PartnerState, lockhash, lock, recoverer)
	if err != nil {
		return []Event{EventInvalidReceivedUnlock{Reason: err.Error()}}
	}

	chanState.PartnerState.BalanceProof = &received
	chanState.PartnerState.pushMerkleTree(candidate)
	delete(chanState.PartnerState.LockedLocks, lock.Secrethash)
	delete(chanState.PartnerState.UnlockedLocks, lock.Secrethash)
	delete(chanState.PartnerState.OnchainUnlockedLocks, lock.Secrethash)

	return []Event{SendProcessed{
		Recipient:         chanState.PartnerState.Address,
		MessageIdentifier: idGen(),
	}}
}

// ReceiveLockExpired validates and, on success, commits an incoming
// LockExpired, evicting the lock from the partner's LockedLocks and
// UnlockedLocks (but not OnchainUnlockedLocks — spec.md §4.B/§4.C).
func ReceiveLockExpired(chanState *ChannelState, received BalanceProof, lockhash Hash, lock Lock, blockNumber uint64, secretRegisteredOnchain bool, idGen IDGenerator, recoverer crypto.Recoverer) []Event {
	candidate, err := ValidateLockExpired(received, chanState, chanState.PartnerState, lockhash, lock, blockNumber, secretRegisteredOnchain, false, recoverer)
	if err != nil {
		return []Event{EventInvalidReceivedLockExpired{Reason: err.Error()}}
	}

	chanState.PartnerState.BalanceProof = &received
	chanState.PartnerState.pushMerkleTree(candidate)
	delete(chanState.PartnerState.LockedLocks, lock.Secrethash)
	delete(chanState.PartnerState.UnlockedLocks, lock.Secrethash)

	return []Event{SendProcessed{
		Recipient:         chanState.PartnerState.Address,
		MessageIdentifier: idGen(),
	}}
}

// ReceiveTransferRefund validates and, on success, commits an incoming
// RefundTransfer exactly as a locked transfer, additionally checking the
// refund-specific predicates of spec.md §4.B.
func ReceiveTransferRefund(chanState *ChannelState, received BalanceProof, lock Lock, refund, original RefundDetails, refundSender Address, idGen IDGenerator, recoverer crypto.Recoverer) []Event {
	candidate, err := ValidateRefund(received, chanState, chanState.PartnerState, chanState.OurState, lock, refund, original, refundSender, recoverer)
	if err != nil {
		return []Event{EventInvalidReceivedTransferRefund{Reason: err.Error()}}
	}

	chanState.PartnerState.BalanceProof = &received
	chanState.PartnerState.pushMerkleTree(candidate)
	chanState.PartnerState.LockedLocks[lock.Secrethash] = lock

	return []Event{SendProcessed{
		Recipient:         chanState.PartnerState.Address,
		MessageIdentifier: idGen(),
	}}
}
