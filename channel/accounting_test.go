package channel

import "testing"

func TestBalanceSimple(t *testing.T) {
	cs, _, _ := newTestChannel(100, 40)

	if got := Balance(cs.OurState, cs.PartnerState); got.Cmp(u256(100)) != 0 {
		t.Fatalf("balance = %v, want 100", got)
	}
	if got := Balance(cs.PartnerState, cs.OurState); got.Cmp(u256(40)) != 0 {
		t.Fatalf("balance = %v, want 40", got)
	}
}

func TestDistributableBoundedByBalance(t *testing.T) {
	cs, our, _ := newTestChannel(100, 0)

	lock := Lock{Amount: u256(40), Expiration: 900, Secrethash: leafHash("d1")}
	if _, err := CreateLockedTransfer(cs, lock, sequentialIDGen(), our.sign); err != nil {
		t.Fatalf("CreateLockedTransfer: %v", err)
	}

	if got := Distributable(cs.OurState, cs.PartnerState); got.Cmp(u256(60)) != 0 {
		t.Fatalf("distributable after one lock = %v, want 60", got)
	}
}

func TestBatchUnlockGain(t *testing.T) {
	cs, _, _ := newTestChannel(100, 100)

	secrethash := leafHash("gain-1")
	cs.OurState.LockedLocks[secrethash] = Lock{Amount: u256(5), Expiration: 10, Secrethash: secrethash}
	partnerSH := leafHash("gain-2")
	cs.PartnerState.OnchainUnlockedLocks[partnerSH] = unlockedLock{
		Lock: Lock{Amount: u256(7), Expiration: 10, Secrethash: partnerSH},
	}

	fromPartner, fromOurs := BatchUnlockGain(cs)
	if fromPartner.Cmp(u256(7)) != 0 {
		t.Fatalf("fromPartnerLocks = %v, want 7", fromPartner)
	}
	if fromOurs.Cmp(u256(5)) != 0 {
		t.Fatalf("fromOurLocks = %v, want 5", fromOurs)
	}
}

func TestAddOverflows(t *testing.T) {
	if addOverflows(u256(1), u256(2)) {
		t.Fatalf("1+2 must not overflow")
	}
	if !addOverflows(UINT256Max(), u256(1)) {
		t.Fatalf("UINT256_MAX+1 must overflow")
	}
}
