package channel

import "github.com/holiman/uint256"

// StateChange is the closed set of inputs the transition dispatcher
// accepts (spec.md §4.E): user actions, received messages, observed
// on-chain events, and block ticks. It is a small closed interface with
// an unexported marker method — the idiomatic Go substitute for a tagged
// sum type with exhaustive pattern match (spec.md §9), chosen so the
// dispatcher cannot compile a case that routes a variant's fields to the
// wrong handler, the exact bug class spec.md §9 flags in the source
// (ActionChannelWithdraw being misrouted through a `close` field).
type StateChange interface {
	isStateChange()
}

type baseStateChange struct{}

func (baseStateChange) isStateChange() {}

// Block is delivered once per observed block, driving the deposit queue
// and settlement-timeout checks.
type Block struct {
	baseStateChange
	BlockNumber uint64
	BlockHash   Hash
}

// ActionChannelClose requests we submit a close transaction.
type ActionChannelClose struct {
	baseStateChange
}

// ActionChannelSetFee updates the locally stored mediation fee rate.
type ActionChannelSetFee struct {
	baseStateChange
	Fee *uint256.Int
}

// ActionChannelWithdraw requests a cooperative withdraw of Amount from
// our side of the channel.
type ActionChannelWithdraw struct {
	baseStateChange
	Amount *uint256.Int
}

// ContractReceiveChannelClosed reports an observed on-chain close event.
type ContractReceiveChannelClosed struct {
	baseStateChange
	BlockNumber         uint64
	ClosingParticipant  Address
	ClosingBalanceProof *BalanceProof
}

// ContractReceiveUpdateTransfer reports our update-transfer transaction
// finishing successfully on-chain.
type ContractReceiveUpdateTransfer struct {
	baseStateChange
	BlockNumber uint64
}

// ContractReceiveChannelSettled reports an observed on-chain settle
// event, carrying the locksroots recorded by the contract for each side.
type ContractReceiveChannelSettled struct {
	baseStateChange
	BlockNumber              uint64
	OurOnchainLocksroot      Hash
	PartnerOnchainLocksroot Hash
}

// ContractReceiveChannelNewBalance reports an on-chain deposit event
// (possibly unconfirmed).
type ContractReceiveChannelNewBalance struct {
	baseStateChange
	BlockNumber     uint64
	ParticipantAddr Address
	TotalDeposit    *uint256.Int
	// DepositBlockNumber is the block the deposit transaction was mined
	// in, used to key the confirmation-delay heap; normally equal to
	// BlockNumber but kept distinct so a late-delivered event can still
	// be queued against its real mining height.
	DepositBlockNumber uint64
}

// ContractReceiveChannelBatchUnlock reports an observed on-chain batch
// unlock for one participant's side.
type ContractReceiveChannelBatchUnlock struct {
	baseStateChange
	Participant Address
}

// ReceiveWithdrawRequest is a signed withdraw request from the partner.
type ReceiveWithdrawRequest struct {
	baseStateChange
	Requester Address
	Amount    *uint256.Int
	Signature []byte
	// PackedBytes is the exact signed payload the Signature covers,
	// supplied by the caller (wire-decoding is explicitly out of scope,
	// spec.md §1).
	PackedBytes []byte
}
