package channel

import "testing"

func TestRegisterOffchainSecretIsIdempotent(t *testing.T) {
	cs, _, _ := newTestChannel(100, 0)
	secrethash := leafHash("idempotent")
	secret := leafHash("the-preimage")
	lock := Lock{Amount: u256(5), Expiration: 900, Secrethash: secrethash}

	cs.OurState.LockedLocks[secrethash] = lock
	cs.PartnerState.LockedLocks[secrethash] = lock

	RegisterOffchainSecret(cs, secret, secrethash)
	if _, ok := cs.OurState.UnlockedLocks[secrethash]; !ok {
		t.Fatalf("lock should have moved to unlocked_locks")
	}
	if _, ok := cs.OurState.LockedLocks[secrethash]; ok {
		t.Fatalf("lock should be gone from locked_locks")
	}

	// Idempotent: calling again must not panic or duplicate.
	RegisterOffchainSecret(cs, secret, secrethash)
	if len(cs.OurState.UnlockedLocks) != 1 {
		t.Fatalf("unlocked_locks should still have exactly one entry")
	}
}

func TestRegisterOnchainSecretIgnoresLateReveal(t *testing.T) {
	cs, _, _ := newTestChannel(100, 0)
	secrethash := leafHash("late-reveal")
	secret := leafHash("preimage")
	lock := Lock{Amount: u256(5), Expiration: 900, Secrethash: secrethash}
	cs.OurState.LockedLocks[secrethash] = lock

	RegisterOnchainSecret(cs, secret, secrethash, 901, true)

	if _, ok := cs.OurState.OnchainUnlockedLocks[secrethash]; ok {
		t.Fatalf("a reveal confirmed after expiration must be ignored")
	}
	if _, ok := cs.OurState.LockedLocks[secrethash]; !ok {
		t.Fatalf("lock must remain untouched in locked_locks")
	}
}

func TestRegisterOnchainSecretKeepsLockVisibleWhenNotDeleting(t *testing.T) {
	cs, _, _ := newTestChannel(100, 0)
	secrethash := leafHash("keep-visible")
	secret := leafHash("preimage-2")
	lock := Lock{Amount: u256(5), Expiration: 900, Secrethash: secrethash}
	cs.OurState.LockedLocks[secrethash] = lock

	RegisterOnchainSecret(cs, secret, secrethash, 800, false)

	if _, ok := cs.OurState.OnchainUnlockedLocks[secrethash]; !ok {
		t.Fatalf("lock must be registered onchain")
	}
	if _, ok := cs.OurState.LockedLocks[secrethash]; !ok {
		t.Fatalf("lock must remain visible in locked_locks when deleteLock is false")
	}
}

func TestRegisterOnchainSecretDeletesWhenRequested(t *testing.T) {
	cs, _, _ := newTestChannel(100, 0)
	secrethash := leafHash("delete-me")
	secret := leafHash("preimage-3")
	lock := Lock{Amount: u256(5), Expiration: 900, Secrethash: secrethash}
	cs.OurState.LockedLocks[secrethash] = lock

	RegisterOnchainSecret(cs, secret, secrethash, 800, true)

	if _, ok := cs.OurState.LockedLocks[secrethash]; ok {
		t.Fatalf("lock must be evicted from locked_locks when deleteLock is true")
	}
	if _, ok := cs.OurState.OnchainUnlockedLocks[secrethash]; !ok {
		t.Fatalf("lock must still be registered onchain")
	}
}
