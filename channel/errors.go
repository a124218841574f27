package channel

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Sentinel validation-failure errors (spec.md §7 kind 1): these never
// mutate state, and are carried as the reason string on the resulting
// EventInvalidReceived* event. Grounded on channeldb/error.go's
// package-level `var Err... = fmt.Errorf(...)` idiom.
var (
	ErrWrongChannelIdentity = fmt.Errorf("channel: balance proof channel identity does not match")
	ErrNonceMismatch        = fmt.Errorf("channel: balance proof nonce is not the expected next nonce")
	ErrInvalidSignature     = fmt.Errorf("channel: balance proof signature does not recover to sender")
	ErrAmountOverflow       = fmt.Errorf("channel: transferred_amount + locked_amount exceeds UINT256_MAX")
	ErrLocksrootMismatch    = fmt.Errorf("channel: balance proof locksroot does not match candidate Merkle tree")
	ErrTransferredChanged   = fmt.Errorf("channel: transferred_amount must not change for this message kind")
	ErrLockedAmountMismatch = fmt.Errorf("channel: locked_amount does not match candidate lock delta")
	ErrLockAlreadyPending   = fmt.Errorf("channel: lockhash already present in the Merkle tree")
	ErrLockNotFound         = fmt.Errorf("channel: lock not found for secrethash")
	ErrInsufficientBalance  = fmt.Errorf("channel: lock amount exceeds distributable balance")
	ErrTooManyPendingLocks  = fmt.Errorf("channel: candidate Merkle tree exceeds MAXIMUM_PENDING_TRANSFERS")
	ErrChannelNotOpen       = fmt.Errorf("channel: operation requires status OPENED")
	ErrSecretOnchain        = fmt.Errorf("channel: secret already registered on-chain for this lock")
	ErrLockNotExpired       = fmt.Errorf("channel: lock has not reached its expiry confirmation threshold")
	ErrRefundMismatch       = fmt.Errorf("channel: refund transfer does not match the original outgoing transfer")
	ErrRefundFromTarget     = fmt.Errorf("channel: refund sender must not be the original transfer target")
)

// ErrInvalidPrecondition is the base sentinel wrapped by
// assertPrecondition for spec.md §7 kind 2 (caller precondition
// violations on internally generated messages). These are programmer
// bugs: the implementation refuses the operation outright rather than
// partially mutating state.
var ErrInvalidPrecondition = fmt.Errorf("channel: invalid precondition for internally generated operation")

// assertPrecondition panics with a stack-annotated error (via
// go-errors/errors, as peer.go and discovery/validation.go do for
// unrecoverable conditions) when cond is false. Used only for conditions
// that indicate a caller bug, never for received-message validation.
func assertPrecondition(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	panic(goerrors.Wrap(fmt.Errorf("%w: %s", ErrInvalidPrecondition, msg), 1))
}
