package channel

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/nettinglabs/netting-core/crypto"
)

// UnsignedBalanceProof is the local, not-yet-signed variant of a balance
// proof: everything a BalanceProof carries except the signature.
type UnsignedBalanceProof struct {
	Nonce             uint64
	TransferredAmount *uint256.Int
	LockedAmount      *uint256.Int
	Locksroot         Hash
	ChannelIdentity   ChannelIdentity
	// MessageHash is the "additional_hash" of spec.md §6: an opaque hash
	// of the message-specific payload (e.g. the locked-transfer
	// metadata) that the balance proof's signature also binds to.
	MessageHash Hash
}

// BalanceProof is a signed balance proof received from the channel peer.
type BalanceProof struct {
	UnsignedBalanceProof
	Signature []byte
}

// BalanceHash computes balance_hash = keccak256(transferred || locked ||
// locksroot), exactly as spec.md §6 defines it. Bit-exact with the
// on-chain contract; must not change.
func (u UnsignedBalanceProof) BalanceHash() Hash {
	var transferredBE, lockedBE [32]byte
	putUint256BE(transferredBE[:], u.TransferredAmount)
	putUint256BE(lockedBE[:], u.LockedAmount)
	return Hash(crypto.Keccak256(transferredBE[:], lockedBE[:], u.Locksroot[:]))
}

// PackedBytes returns the exact byte sequence the balance proof's
// signature is computed over:
//
//	nonce(32BE) || balance_hash(32) || additional_hash(32) ||
//	chain_id(32) || token_network_address(20) || channel_identifier(32)
//
// This encoding is bit-exact with the on-chain contract (spec.md §6) and
// MUST NOT change.
func (u UnsignedBalanceProof) PackedBytes() []byte {
	buf := make([]byte, 0, 32+32+32+32+20+32)

	var nonceBE [32]byte
	binary.BigEndian.PutUint64(nonceBE[24:], u.Nonce)
	buf = append(buf, nonceBE[:]...)

	balanceHash := u.BalanceHash()
	buf = append(buf, balanceHash[:]...)

	buf = append(buf, u.MessageHash[:]...)

	var chainIDBE [32]byte
	binary.BigEndian.PutUint64(chainIDBE[24:], u.ChannelIdentity.ChainID)
	buf = append(buf, chainIDBE[:]...)

	buf = append(buf, u.ChannelIdentity.TokenNetworkAddress[:]...)

	var channelIDBE [32]byte
	binary.BigEndian.PutUint64(channelIDBE[24:], u.ChannelIdentity.ChannelID)
	buf = append(buf, channelIDBE[:]...)

	return buf
}

// Sign produces a BalanceProof by signing u's packed bytes with signFn,
// a narrow collaborator akin to spec.md §6's recover() — signing is the
// dual operation, supplied by the caller (a wallet/keystore), never by
// this package.
func (u UnsignedBalanceProof) Sign(signFn func([]byte) ([]byte, error)) (BalanceProof, error) {
	sig, err := signFn(u.PackedBytes())
	if err != nil {
		return BalanceProof{}, err
	}
	return BalanceProof{UnsignedBalanceProof: u, Signature: sig}, nil
}

// RecoverSigner recovers the address that produced bp.Signature over
// bp.PackedBytes(), using the given Recoverer collaborator.
func (bp BalanceProof) RecoverSigner(recoverer crypto.Recoverer) (Address, error) {
	addr, err := recoverer.Recover(bp.PackedBytes(), bp.Signature)
	return Address(addr), err
}
