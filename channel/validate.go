package channel

import (
	"github.com/holiman/uint256"
	"github.com/nettinglabs/netting-core/crypto"
)

// ValidateOnchainUsable performs the five ordered checks spec.md §4.B
// requires of any balance proof before it may be treated as usable
// on-chain: channel openness, identity binding, arithmetic safety, strict
// nonce sequencing, and signature recovery. It never mutates state.
func ValidateOnchainUsable(received BalanceProof, chanState *ChannelState, senderEnd *EndState, recoverer crypto.Recoverer) error {
	if chanState.Status() != StatusOpened {
		return ErrChannelNotOpen
	}
	if !received.ChannelIdentity.Equal(chanState.Identity) {
		return ErrWrongChannelIdentity
	}
	if addOverflows(received.TransferredAmount, received.LockedAmount) {
		return ErrAmountOverflow
	}
	if received.Nonce != senderEnd.NextNonce() {
		return ErrNonceMismatch
	}

	signer, err := received.RecoverSigner(recoverer)
	if err != nil {
		return err
	}
	if signer != senderEnd.Address {
		return ErrInvalidSignature
	}
	return nil
}

// ValidateLockedTransfer layers the locked-transfer predicates of
// spec.md §4.B on top of ValidateOnchainUsable. On success it returns the
// candidate Merkle tree (sender's tree with lock inserted) so the caller
// can commit sender's balance proof and tree atomically.
func ValidateLockedTransfer(received BalanceProof, chanState *ChannelState, sender, receiver *EndState, lock Lock, recoverer crypto.Recoverer) (*MerkleTree, error) {
	if err := ValidateOnchainUsable(received, chanState, sender, recoverer); err != nil {
		return nil, err
	}

	candidate, inserted := With(sender.MerkleTree, lock.LockHash())
	if !inserted {
		return nil, ErrLockAlreadyPending
	}
	if candidate.Width() > MaximumPendingTransfers {
		return nil, ErrTooManyPendingLocks
	}
	if received.Locksroot != candidate.Root() {
		return nil, ErrLocksrootMismatch
	}
	if received.TransferredAmount.Cmp(sender.transferredAmount()) != 0 {
		return nil, ErrTransferredChanged
	}

	wantLocked := new(uint256.Int).Add(sender.lockedAmount(), lock.Amount)
	if received.LockedAmount.Cmp(wantLocked) != 0 {
		return nil, ErrLockedAmountMismatch
	}

	if lock.Amount.Cmp(Distributable(sender, receiver)) > 0 {
		return nil, ErrInsufficientBalance
	}

	return candidate, nil
}

// ValidateUnlock layers the unlock predicates of spec.md §4.B.
func ValidateUnlock(received BalanceProof, chanState *ChannelState, sender *EndState, lockhash Hash, lock Lock, recoverer crypto.Recoverer) (*MerkleTree, error) {
	if err := ValidateOnchainUsable(received, chanState, sender, recoverer); err != nil {
		return nil, err
	}

	if !sender.MerkleTree.Contains(lockhash) {
		return nil, ErrLockNotFound
	}

	candidate, removed := Without(sender.MerkleTree, lockhash)
	if !removed {
		return nil, ErrLockNotFound
	}
	if received.Locksroot != candidate.Root() {
		historical := sender.treeForRoot(received.Locksroot)
		if historical == nil || historical.Contains(lockhash) {
			return nil, ErrLocksrootMismatch
		}
		candidate = historical
	}

	wantTransferred := new(uint256.Int).Add(sender.transferredAmount(), lock.Amount)
	if received.TransferredAmount.Cmp(wantTransferred) != 0 {
		return nil, ErrTransferredChanged
	}

	wantLocked, underflow := subClamped(sender.lockedAmount(), lock.Amount)
	if underflow || received.LockedAmount.Cmp(wantLocked) != 0 {
		return nil, ErrLockedAmountMismatch
	}

	return candidate, nil
}

// ValidateLockExpired layers the lock-expired predicates of spec.md
// §4.B. asSender distinguishes the stricter threshold applied when the
// local party is about to countersign as the lock's original sender
// (2*DEFAULT_CONFIRMATIONS) from the threshold used when merely checking
// a message as its receiver (DEFAULT_CONFIRMATIONS) — see DESIGN.md for
// the reading of spec.md §4.B this implements.
func ValidateLockExpired(received BalanceProof, chanState *ChannelState, sender *EndState, lockhash Hash, lock Lock, blockNumber uint64, secretRegisteredOnchain bool, asSender bool, recoverer crypto.Recoverer) (*MerkleTree, error) {
	if err := ValidateOnchainUsable(received, chanState, sender, recoverer); err != nil {
		return nil, err
	}

	if secretRegisteredOnchain {
		return nil, ErrSecretOnchain
	}

	threshold := lock.Expiration + DefaultConfirmations
	if asSender {
		threshold = lock.Expiration + 2*DefaultConfirmations
	}
	if blockNumber < threshold {
		return nil, ErrLockNotExpired
	}

	candidate, removed := Without(sender.MerkleTree, lockhash)
	if !removed {
		return nil, ErrLockNotFound
	}
	if received.Locksroot != candidate.Root() {
		historical := sender.treeForRoot(received.Locksroot)
		if historical == nil || historical.Contains(lockhash) {
			return nil, ErrLocksrootMismatch
		}
		candidate = historical
	}
	if received.TransferredAmount.Cmp(sender.transferredAmount()) != 0 {
		return nil, ErrTransferredChanged
	}

	wantLocked, underflow := subClamped(sender.lockedAmount(), lock.Amount)
	if underflow || received.LockedAmount.Cmp(wantLocked) != 0 {
		return nil, ErrLockedAmountMismatch
	}

	return candidate, nil
}

// RefundDetails identifies the fields of an incoming RefundTransfer that
// must match the original outgoing locked transfer (spec.md §4.B).
type RefundDetails struct {
	PaymentIdentifier uint64
	Amount            *uint256.Int
	Secrethash        Hash
	Target            Address
	Expiration        uint64
	Token             Address
}

// ValidateRefund applies the locked-transfer check and then the refund
// predicates of spec.md §4.B.
func ValidateRefund(received BalanceProof, chanState *ChannelState, sender, receiver *EndState, lock Lock, refund, original RefundDetails, refundSender Address, recoverer crypto.Recoverer) (*MerkleTree, error) {
	candidate, err := ValidateLockedTransfer(received, chanState, sender, receiver, lock, recoverer)
	if err != nil {
		return nil, err
	}

	if refund.PaymentIdentifier != original.PaymentIdentifier ||
		refund.Amount.Cmp(original.Amount) != 0 ||
		refund.Secrethash != original.Secrethash ||
		refund.Target != original.Target ||
		refund.Expiration != original.Expiration ||
		refund.Token != original.Token {
		return nil, ErrRefundMismatch
	}

	if refundSender == original.Target {
		return nil, ErrRefundFromTarget
	}

	return candidate, nil
}
