package crypto

import (
	"bytes"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func TestKeccak256MatchesGoEthereum(t *testing.T) {
	got := Keccak256([]byte("a"), []byte("b"))
	want := gethcrypto.Keccak256([]byte("a"), []byte("b"))
	if !bytes.Equal(got[:], want) {
		t.Fatalf("Keccak256 = %x, want %x", got, want)
	}
}

func TestGoEthereumRecovererRoundTrip(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	want := gethcrypto.PubkeyToAddress(key.PublicKey)

	data := []byte("balance proof payload")
	digest := gethcrypto.Keccak256(data)
	sig, err := gethcrypto.Sign(digest, key)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got, err := GoEthereumRecoverer{}.Recover(data, sig)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if !bytes.Equal(got[:], want.Bytes()) {
		t.Fatalf("recovered = %x, want %x", got, want)
	}
}

func TestGoEthereumRecovererRejectsShortSignature(t *testing.T) {
	_, err := GoEthereumRecoverer{}.Recover([]byte("data"), make([]byte, 10))
	if err == nil {
		t.Fatalf("expected an error for a malformed signature")
	}
}

func TestGoEthereumRecovererRejectsWrongSigner(t *testing.T) {
	signer, err := gethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	other, err := gethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	data := []byte("payload")
	sig, err := gethcrypto.Sign(gethcrypto.Keccak256(data), signer)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got, err := GoEthereumRecoverer{}.Recover(data, sig)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	notWant := gethcrypto.PubkeyToAddress(other.PublicKey)
	if bytes.Equal(got[:], notWant.Bytes()) {
		t.Fatalf("recovered address should not match an unrelated key")
	}
}
