package channel

import "github.com/holiman/uint256"

// Event is the closed set of outputs a transition may emit: outgoing
// messages and on-chain transaction submissions (spec.md §6). Like
// StateChange, it is a small closed interface with an unexported marker
// method rather than an `interface{}` bag, so dispatch.go's handlers
// cannot accidentally emit or consume the wrong shape.
type Event interface {
	isEvent()
}

type baseEvent struct{}

func (baseEvent) isEvent() {}

// -- Messaging events --------------------------------------------------

// SendLockedTransfer is emitted when our side adds a new lock and sends
// the accompanying balance proof to the partner.
type SendLockedTransfer struct {
	baseEvent
	Recipient         Address
	BalanceProof      BalanceProof
	Lock              Lock
	MessageIdentifier uint64
}

// SendBalanceProof is emitted on a successful unlock: the new balance
// proof moving transferred_amount forward and shrinking locked_amount.
type SendBalanceProof struct {
	baseEvent
	Recipient         Address
	BalanceProof      BalanceProof
	Secret            Hash
	Secrethash        Hash
	MessageIdentifier uint64
}

// SendLockExpired is emitted when we evict one of our own expired locks
// and inform the partner via a fresh balance proof (spec.md §4.C).
type SendLockExpired struct {
	baseEvent
	Recipient         Address
	BalanceProof      BalanceProof
	Secrethash        Hash
	MessageIdentifier uint64
}

// SendRefundTransfer is emitted when a mediated transfer cannot be
// forwarded and is refunded back to its sender.
type SendRefundTransfer struct {
	baseEvent
	Recipient         Address
	BalanceProof      BalanceProof
	Lock              Lock
	MessageIdentifier uint64
}

// SendWithdrawRequest is emitted by ActionChannelWithdraw.
type SendWithdrawRequest struct {
	baseEvent
	Recipient         Address
	Amount            *uint256.Int
	MessageIdentifier uint64
}

// SendWithdraw acknowledges a validated ReceiveWithdrawRequest.
type SendWithdraw struct {
	baseEvent
	Recipient         Address
	Amount            *uint256.Int
	MessageIdentifier uint64
}

// SendProcessed is a reliable-retransmit acknowledgement addressed on the
// global queue, emitted after any successfully committed message receipt
// (spec.md §4.E).
type SendProcessed struct {
	baseEvent
	Recipient        Address
	MessageIdentifier uint64
}

// EventInvalidReceivedLockedTransfer, ...Unlock, ...LockExpired and
// ...TransferRefund are the diagnostic events emitted on validation
// failure (spec.md §7 kind 1); state is left untouched.
type EventInvalidReceivedLockedTransfer struct {
	baseEvent
	Reason string
}

type EventInvalidReceivedUnlock struct {
	baseEvent
	Reason string
}

type EventInvalidReceivedLockExpired struct {
	baseEvent
	Reason string
}

type EventInvalidReceivedTransferRefund struct {
	baseEvent
	Reason string
}

type EventInvalidReceivedWithdrawRequest struct {
	baseEvent
	Reason string
}

// -- On-chain transaction submission events -----------------------------

// ContractSendChannelClose requests the close transaction be submitted.
type ContractSendChannelClose struct {
	baseEvent
	ChannelIdentity ChannelIdentity
	BalanceProof    *BalanceProof
}

// ContractSendChannelSettle requests the settle transaction be submitted.
type ContractSendChannelSettle struct {
	baseEvent
	ChannelIdentity ChannelIdentity
}

// ContractSendChannelUpdateTransfer requests our last known partner
// balance proof be submitted to update the on-chain record before
// settlement.
type ContractSendChannelUpdateTransfer struct {
	baseEvent
	ChannelIdentity ChannelIdentity
	BalanceProof    BalanceProof
}

// ContractSendChannelBatchUnlock requests the batch-unlock transaction
// that releases settled pending locks be submitted.
type ContractSendChannelBatchUnlock struct {
	baseEvent
	ChannelIdentity ChannelIdentity
	Participant     Address
}
