package channel

import "github.com/holiman/uint256"

// Balance computes sender's spendable balance towards receiver:
//
//	sender.contract_balance - sender.total_withdraw -
//	sender.transferred_amount + receiver.transferred_amount
//
// (spec.md §4.F). All intermediate values are clamped at zero rather than
// allowed to underflow — uint256 has no signed representation, and a
// transiently negative balance during an invalid sequence is a caller bug
// the validators must already have rejected before this is ever called.
func Balance(sender, receiver *EndState) *uint256.Int {
	balance := new(uint256.Int).Set(sender.ContractBalance)

	balance, underflow := subClamped(balance, sender.TotalWithdraw)
	if underflow {
		return uint256.NewInt(0)
	}
	balance, underflow = subClamped(balance, sender.transferredAmount())
	if underflow {
		return uint256.NewInt(0)
	}
	balance.Add(balance, receiver.transferredAmount())
	return balance
}

// AmountLocked sums the amounts across the three lock maps of end.
func AmountLocked(end *EndState) *uint256.Int {
	return end.AmountLocked()
}

// Distributable computes the amount sender may still send to receiver
// without overflowing UINT256_MAX or over-committing its balance
// (spec.md §4.F):
//
//	min(max(UINT256_MAX - transferred - locked, 0), balance - amount_locked)
func Distributable(sender, receiver *EndState) *uint256.Int {
	headroom, underflow := subClamped(UINT256Max(), sender.transferredAmount())
	if !underflow {
		headroom, underflow = subClamped(headroom, sender.lockedAmount())
	}
	if underflow {
		headroom = uint256.NewInt(0)
	}

	balance := Balance(sender, receiver)
	committed, underflow := subClamped(balance, AmountLocked(sender))
	if underflow {
		committed = uint256.NewInt(0)
	}

	if headroom.Cmp(committed) <= 0 {
		return headroom
	}
	return committed
}

// BatchUnlockGain returns the settlement-time payout owed from each
// side's pending locks: the partner's on-chain-registered secrets pay
// our side, and our own still-pending locks (secret known or not) return
// to us. Expiration is intentionally not checked here — these
// semantics are valid only once the channel has actually settled
// (spec.md §4.F).
func BatchUnlockGain(channel *ChannelState) (fromPartnerLocks, fromOurLocks *uint256.Int) {
	fromPartnerLocks = uint256.NewInt(0)
	for _, ul := range channel.PartnerState.OnchainUnlockedLocks {
		fromPartnerLocks.Add(fromPartnerLocks, ul.Lock.Amount)
	}

	fromOurLocks = uint256.NewInt(0)
	for _, l := range channel.OurState.LockedLocks {
		fromOurLocks.Add(fromOurLocks, l.Amount)
	}
	for _, ul := range channel.OurState.UnlockedLocks {
		fromOurLocks.Add(fromOurLocks, ul.Lock.Amount)
	}
	return fromPartnerLocks, fromOurLocks
}

// subClamped returns a-b and whether b exceeded a (in which case the
// first return is zero, not a wrapped/underflowed value).
func subClamped(a, b *uint256.Int) (*uint256.Int, bool) {
	if a.Cmp(b) < 0 {
		return uint256.NewInt(0), true
	}
	return new(uint256.Int).Sub(a, b), false
}

// addOverflows reports whether a+b would exceed UINT256_MAX
// (spec.md §3 invariant 3, §4.F "overflow safety... at every mutation").
func addOverflows(a, b *uint256.Int) bool {
	_, overflow := new(uint256.Int).AddOverflow(a, b)
	return overflow
}
