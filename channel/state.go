package channel

import (
	"container/heap"

	"github.com/holiman/uint256"
)

// PendingDeposit is an unconfirmed on-chain deposit, held in
// ChannelState's deposit queue until it reaches DefaultConfirmations.
type PendingDeposit struct {
	BlockNumber     uint64
	ParticipantAddr Address
	TotalDeposit    *uint256.Int
}

// depositHeap is a min-heap of PendingDeposit ordered by BlockNumber,
// backing ChannelState.DepositTransactionQueue (spec.md §3, §5 "deposit
// queue discipline").
type depositHeap []PendingDeposit

func (h depositHeap) Len() int            { return len(h) }
func (h depositHeap) Less(i, j int) bool  { return h[i].BlockNumber < h[j].BlockNumber }
func (h depositHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *depositHeap) Push(x interface{}) { *h = append(*h, x.(PendingDeposit)) }
func (h *depositHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ChannelState is the full replicated state of one channel, mirrored by
// both participants (spec.md §3).
type ChannelState struct {
	Identity ChannelIdentity

	OurState     *EndState
	PartnerState *EndState

	TokenAddress Address

	RevealTimeout uint64
	SettleTimeout uint64

	MediationFee *uint256.Int

	CloseTransaction  *TransactionRecord
	SettleTransaction *TransactionRecord
	UpdateTransaction *TransactionRecord

	// UnusableReason is a free-form diagnostic field. Nothing in this
	// package sets or reads it; Status derives Unusable from the
	// transaction records alone.
	UnusableReason string

	depositQueue depositHeap
}

// NewChannelState constructs a freshly opened channel between our and
// partner end-states.
func NewChannelState(identity ChannelIdentity, tokenAddress Address, ourState, partnerState *EndState, revealTimeout, settleTimeout uint64) *ChannelState {
	cs := &ChannelState{
		Identity:      identity,
		OurState:      ourState,
		PartnerState:  partnerState,
		TokenAddress:  tokenAddress,
		RevealTimeout: revealTimeout,
		SettleTimeout: settleTimeout,
		MediationFee:  uint256.NewInt(0),
	}
	heap.Init(&cs.depositQueue)
	return cs
}

// QueueDeposit pushes an unconfirmed deposit onto the min-heap, keyed by
// block number.
func (c *ChannelState) QueueDeposit(d PendingDeposit) {
	heap.Push(&c.depositQueue, d)
}

// PopConfirmedDeposits removes and returns, in ascending block-number
// order, every queued deposit whose confirmation threshold
// (BlockNumber + DefaultConfirmations) is at or before currentBlock.
func (c *ChannelState) PopConfirmedDeposits(currentBlock uint64) []PendingDeposit {
	var confirmed []PendingDeposit
	for c.depositQueue.Len() > 0 {
		next := c.depositQueue[0]
		if next.BlockNumber+DefaultConfirmations > currentBlock {
			break
		}
		confirmed = append(confirmed, heap.Pop(&c.depositQueue).(PendingDeposit))
	}
	return confirmed
}

// endStateFor returns the end-state belonging to addr, for applying a
// confirmed deposit to whichever side it targets.
func (c *ChannelState) endStateFor(addr Address) *EndState {
	if c.OurState.Address == addr {
		return c.OurState
	}
	if c.PartnerState.Address == addr {
		return c.PartnerState
	}
	return nil
}

// ApplyConfirmedDeposit sets the targeted end-state's contract balance to
// the deposit's new total, as observed on-chain.
func (c *ChannelState) ApplyConfirmedDeposit(d PendingDeposit) {
	end := c.endStateFor(d.ParticipantAddr)
	if end == nil {
		return
	}
	end.ContractBalance = d.TotalDeposit
}

// BothOnchainLocksrootsEmpty reports whether both sides' on-chain
// locksroot have been cleared (spec.md §3 channel-disposal condition).
func (c *ChannelState) BothOnchainLocksrootsEmpty() bool {
	return c.OurState.OnchainLocksroot == EmptyRoot &&
		c.PartnerState.OnchainLocksroot == EmptyRoot
}
