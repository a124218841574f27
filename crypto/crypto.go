// Package crypto wraps the two cryptographic primitives the channel core
// consumes as pure collaborator functions (spec.md §6): keccak256 hashing
// and ECDSA signature recovery. Concrete implementations are backed by
// go-ethereum's crypto package, grounded on the Ethereum-stack example
// repo in the retrieval pack (_examples/wyf-ACCEPT-eth2030), since the
// teacher (lnd) operates over a different curve/hash family entirely.
package crypto

import (
	"fmt"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Hash is re-declared locally (rather than imported from package channel)
// to keep this package free of a dependency on its only consumer.
type Hash [32]byte

// Address is a fixed-width 20-byte account identifier.
type Address [20]byte

// Keccak256 hashes the concatenation of data exactly as the on-chain
// contract does; this encoding is bit-exact and must never change
// (spec.md §6).
func Keccak256(data ...[]byte) Hash {
	var h Hash
	copy(h[:], gethcrypto.Keccak256(data...))
	return h
}

// Recoverer recovers the signer address of a packed, signed message.
// Narrow collaborator interface per spec.md §6 ("recover(data, signature)
// -> address").
type Recoverer interface {
	Recover(data []byte, signature []byte) (Address, error)
}

// GoEthereumRecoverer implements Recoverer via secp256k1 ECDSA recovery
// over the keccak256 digest of data, matching the on-chain contract's
// `ecrecover` semantics.
type GoEthereumRecoverer struct{}

// Recover implements Recoverer.
func (GoEthereumRecoverer) Recover(data []byte, signature []byte) (Address, error) {
	if len(signature) != 65 {
		return Address{}, fmt.Errorf("crypto: signature must be 65 bytes, got %d", len(signature))
	}
	digest := gethcrypto.Keccak256(data)
	pub, err := gethcrypto.SigToPub(digest, signature)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: recover signer: %w", err)
	}

	var addr Address
	copy(addr[:], gethcrypto.PubkeyToAddress(*pub).Bytes())
	return addr, nil
}

// DefaultRecoverer is the Recoverer used outside of tests.
var DefaultRecoverer Recoverer = GoEthereumRecoverer{}
