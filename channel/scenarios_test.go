package channel

import (
	"testing"
)

// TestScenarioLockedTransferHappyPath mirrors spec.md §8 scenario 1.
func TestScenarioLockedTransferHappyPath(t *testing.T) {
	cs, our, _ := newTestChannel(100, 0)

	lock := Lock{Amount: u256(30), Expiration: 1050, Secrethash: leafHash("secret-H")}
	event, err := CreateLockedTransfer(cs, lock, sequentialIDGen(), our.sign)
	if err != nil {
		t.Fatalf("CreateLockedTransfer: %v", err)
	}

	sent, ok := event.(SendLockedTransfer)
	if !ok {
		t.Fatalf("event type = %T, want SendLockedTransfer", event)
	}

	if cs.OurState.BalanceProof.Nonce != 1 {
		t.Fatalf("nonce = %d, want 1", cs.OurState.BalanceProof.Nonce)
	}
	if cs.OurState.BalanceProof.TransferredAmount.Cmp(u256(0)) != 0 {
		t.Fatalf("transferred_amount = %v, want 0", cs.OurState.BalanceProof.TransferredAmount)
	}
	if cs.OurState.BalanceProof.LockedAmount.Cmp(u256(30)) != 0 {
		t.Fatalf("locked_amount = %v, want 30", cs.OurState.BalanceProof.LockedAmount)
	}

	wantRoot, _ := With(emptyTree, lock.LockHash())
	if cs.OurState.BalanceProof.Locksroot != wantRoot.Root() {
		t.Fatalf("locksroot mismatch")
	}
	if _, ok := cs.OurState.LockedLocks[lock.Secrethash]; !ok {
		t.Fatalf("our.locked_locks must contain the new lock")
	}
	if sent.Lock.Secrethash != lock.Secrethash {
		t.Fatalf("emitted event carries the wrong lock")
	}

	if got := Distributable(cs.OurState, cs.PartnerState); got.Cmp(u256(70)) != 0 {
		t.Fatalf("distributable = %v, want 70", got)
	}

	assertInvariants(t, cs)
}

// TestScenarioUnlock mirrors spec.md §8 scenario 2: after a secret is
// learned, the lock's original sender settles it with CreateUnlock; the
// test checks the emitted balance proof and both balances on the sender's
// replica.
func TestScenarioUnlock(t *testing.T) {
	cs, our, _ := newTestChannel(100, 0)

	secret := leafHash("the-secret")
	secrethash := Hash(hashOf(secret[:]))
	lock := Lock{Amount: u256(30), Expiration: 1050, Secrethash: secrethash}

	if _, err := CreateLockedTransfer(cs, lock, sequentialIDGen(), our.sign); err != nil {
		t.Fatalf("CreateLockedTransfer: %v", err)
	}

	// our side learns the secret and unlocks.
	event, err := CreateUnlock(cs, secrethash, secret, sequentialIDGen(), our.sign)
	if err != nil {
		t.Fatalf("CreateUnlock: %v", err)
	}
	sendBP := event.(SendBalanceProof)

	if sendBP.BalanceProof.Nonce != 2 {
		t.Fatalf("nonce = %d, want 2", sendBP.BalanceProof.Nonce)
	}
	if sendBP.BalanceProof.TransferredAmount.Cmp(u256(30)) != 0 {
		t.Fatalf("transferred_amount = %v, want 30", sendBP.BalanceProof.TransferredAmount)
	}
	if sendBP.BalanceProof.LockedAmount.Cmp(u256(0)) != 0 {
		t.Fatalf("locked_amount = %v, want 0", sendBP.BalanceProof.LockedAmount)
	}
	if sendBP.BalanceProof.Locksroot != EmptyRoot {
		t.Fatalf("locksroot = %x, want EMPTY_ROOT", sendBP.BalanceProof.Locksroot)
	}
	if _, stillPending := cs.OurState.LockedLocks[secrethash]; stillPending {
		t.Fatalf("lock must be gone from our locked_locks after unlock")
	}

	if got := Balance(cs.OurState, cs.PartnerState); got.Cmp(u256(70)) != 0 {
		t.Fatalf("balance(us, partner) = %v, want 70", got)
	}
	if got := Balance(cs.PartnerState, cs.OurState); got.Cmp(u256(30)) != 0 {
		t.Fatalf("balance(partner, us) = %v, want 30", got)
	}

	assertInvariants(t, cs)
}

// TestScenarioExpiredLock mirrors spec.md §8 scenario 3.
func TestScenarioExpiredLock(t *testing.T) {
	cs, our, _ := newTestChannel(100, 0)

	secrethash := leafHash("expiring-H")
	lock := Lock{Amount: u256(30), Expiration: 1050, Secrethash: secrethash}
	if _, err := CreateLockedTransfer(cs, lock, sequentialIDGen(), our.sign); err != nil {
		t.Fatalf("CreateLockedTransfer: %v", err)
	}

	events, err := EventsForExpiredLock(cs, secrethash, sequentialIDGen(), our.sign)
	if err != nil {
		t.Fatalf("EventsForExpiredLock: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	expired, ok := events[0].(SendLockExpired)
	if !ok {
		t.Fatalf("event type = %T, want SendLockExpired", events[0])
	}

	if expired.BalanceProof.Nonce != 2 {
		t.Fatalf("nonce = %d, want 2", expired.BalanceProof.Nonce)
	}
	if expired.BalanceProof.LockedAmount.Cmp(u256(0)) != 0 {
		t.Fatalf("locked_amount = %v, want 0", expired.BalanceProof.LockedAmount)
	}
	if expired.BalanceProof.TransferredAmount.Cmp(u256(0)) != 0 {
		t.Fatalf("transferred_amount = %v, want 0", expired.BalanceProof.TransferredAmount)
	}
	if expired.BalanceProof.Locksroot != EmptyRoot {
		t.Fatalf("locksroot = %x, want EMPTY_ROOT", expired.BalanceProof.Locksroot)
	}
	if _, ok := cs.OurState.LockedLocks[secrethash]; ok {
		t.Fatalf("secrethash must be evicted from our.locked_locks")
	}

	assertInvariants(t, cs)
}

// TestScenarioReplayRejected mirrors spec.md §8 scenario 4.
func TestScenarioReplayRejected(t *testing.T) {
	cs, our, partner := newTestChannel(100, 0)

	secret := leafHash("replay-secret")
	secrethash := Hash(hashOf(secret[:]))
	lock := Lock{Amount: u256(30), Expiration: 1050, Secrethash: secrethash}
	if _, err := CreateLockedTransfer(cs, lock, sequentialIDGen(), our.sign); err != nil {
		t.Fatalf("CreateLockedTransfer: %v", err)
	}

	// Partner independently received the same locked transfer (mirrored
	// replica) and now sends the unlock we receive and commit once.
	unsigned := UnsignedBalanceProof{
		Nonce:             1,
		TransferredAmount: u256(30),
		LockedAmount:      u256(0),
		Locksroot:         EmptyRoot,
		ChannelIdentity:   cs.Identity,
	}
	bp, err := unsigned.Sign(partner.sign)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// First delivery: commit our own mirrored lock first so the unlock
	// validator finds it.
	cs.PartnerState.LockedLocks[secrethash] = lock

	idGen := sequentialIDGen()
	events := ReceiveUnlock(cs, bp, lock.LockHash(), lock, idGen, testRecoverer)
	if _, ok := events[0].(SendProcessed); !ok {
		t.Fatalf("first delivery: got %T, want SendProcessed", events[0])
	}

	// Replay: same nonce=1 message delivered again must be rejected
	// without mutation.
	before := *cs.PartnerState.BalanceProof
	events = ReceiveUnlock(cs, bp, lock.LockHash(), lock, idGen, testRecoverer)
	invalid, ok := events[0].(EventInvalidReceivedUnlock)
	if !ok {
		t.Fatalf("replay: got %T, want EventInvalidReceivedUnlock", events[0])
	}
	if cs.PartnerState.BalanceProof.Nonce != before.Nonce {
		t.Fatalf("replay must not mutate partner balance proof")
	}
	_ = invalid
}

// TestScenarioSettlementAutoTrigger mirrors spec.md §8 scenario 5.
func TestScenarioSettlementAutoTrigger(t *testing.T) {
	cs, _, _ := newTestChannel(100, 0)

	closedBlock := uint64(1000)
	_, events := StateTransition(cs, ContractReceiveChannelClosed{
		BlockNumber:        closedBlock,
		ClosingParticipant: cs.PartnerState.Address,
	}, Context{Recoverer: testRecoverer})
	_ = events

	if cs.Status() != StatusClosed {
		t.Fatalf("status = %v, want closed", cs.Status())
	}

	_, events = StateTransition(cs, Block{
		BlockNumber: closedBlock + cs.SettleTimeout + 1,
	}, Context{Recoverer: testRecoverer})

	if cs.Status() != StatusSettling {
		t.Fatalf("status = %v, want settling", cs.Status())
	}
	if cs.SettleTransaction == nil || cs.SettleTransaction.Finished {
		t.Fatalf("settle transaction should be running, not finished")
	}

	foundSettle := false
	for _, e := range events {
		if _, ok := e.(ContractSendChannelSettle); ok {
			foundSettle = true
		}
	}
	if !foundSettle {
		t.Fatalf("expected a ContractSendChannelSettle event")
	}
}

// TestScenarioChannelDisposal mirrors spec.md §8 scenario 6.
func TestScenarioChannelDisposal(t *testing.T) {
	cs, _, _ := newTestChannel(100, 0)
	cs.SettleTransaction = &TransactionRecord{}

	newState, _ := StateTransition(cs, ContractReceiveChannelSettled{
		BlockNumber:             2000,
		OurOnchainLocksroot:     EmptyRoot,
		PartnerOnchainLocksroot: EmptyRoot,
	}, Context{Recoverer: testRecoverer})

	if newState != nil {
		t.Fatalf("channel should be disposed (nil) once both locksroots are empty")
	}
}
