// Package channel implements the off-chain payment-channel state machine:
// a deterministic transition function over a replicated, bidirectional,
// hash-timelocked channel between two participants, anchored in an
// on-chain netting contract.
package channel

import "github.com/holiman/uint256"

// Address is a fixed-width account identifier (an Ethereum-style address).
type Address [20]byte

// Hash is a fixed-width 32-byte digest.
type Hash [32]byte

// EmptyRoot is the well-defined Merkle root of the empty lock set.
var EmptyRoot = Hash{}

const (
	// DefaultConfirmations is the number of blocks after which an
	// on-chain event is considered final and safe to act on.
	DefaultConfirmations = uint64(6)

	// MaximumPendingTransfers bounds the width of a channel's Merkle
	// tree (the number of simultaneously pending locks per side).
	MaximumPendingTransfers = 160

	// merkleTreeHistoryLength bounds how many past Merkle trees an
	// EndState keeps around to validate messages that raced a locksroot
	// update (see SPEC_FULL.md §3).
	merkleTreeHistoryLength = 2
)

// UINT256Max is the largest representable on-chain token amount.
func UINT256Max() *uint256.Int {
	max := uint256.NewInt(0)
	return max.Not(max)
}

// ChannelIdentity is the immutable triple every balance proof is bound to.
// A mismatch on any field is unconditionally rejected by the validator.
type ChannelIdentity struct {
	ChainID             uint64
	TokenNetworkAddress  Address
	ChannelID            uint64
}

// Equal reports whether two identities reference the same channel.
func (id ChannelIdentity) Equal(other ChannelIdentity) bool {
	return id.ChainID == other.ChainID &&
		id.TokenNetworkAddress == other.TokenNetworkAddress &&
		id.ChannelID == other.ChannelID
}
