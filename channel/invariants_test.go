package channel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// assertInvariants checks the properties spec.md §8 requires to hold
// after every transition, quantified here per-call-site rather than via
// a dedicated property-testing library (see SPEC_FULL.md §8 for why).
func assertInvariants(t *testing.T, cs *ChannelState) {
	t.Helper()
	assertEndStateInvariants(t, "our", cs.OurState)
	assertEndStateInvariants(t, "partner", cs.PartnerState)
}

func assertEndStateInvariants(t *testing.T, label string, end *EndState) {
	t.Helper()

	if end.BalanceProof != nil {
		require.Equal(t, end.MerkleTree.Root(), end.BalanceProof.Locksroot, "%s: locksroot must match merkle root", label)
		require.Zero(t, end.BalanceProof.LockedAmount.Cmp(end.AmountLocked()), "%s: locked_amount must equal sum of lock maps", label)
		require.False(t, addOverflows(end.BalanceProof.TransferredAmount, end.BalanceProof.LockedAmount), "%s: transferred+locked must not overflow UINT256_MAX", label)
	}

	for sh := range end.LockedLocks {
		_, inUnlocked := end.UnlockedLocks[sh]
		require.False(t, inUnlocked, "%s: secrethash %x present in both locked_locks and unlocked_locks", label, sh)
		_, inOnchain := end.OnchainUnlockedLocks[sh]
		require.False(t, inOnchain, "%s: secrethash %x present in both locked_locks and onchain_unlocked_locks", label, sh)
	}
	for sh := range end.UnlockedLocks {
		_, inOnchain := end.OnchainUnlockedLocks[sh]
		require.False(t, inOnchain, "%s: secrethash %x present in both unlocked_locks and onchain_unlocked_locks", label, sh)
	}
}
