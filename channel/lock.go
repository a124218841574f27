package channel

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/nettinglabs/netting-core/crypto"
)

// Lock is a pending hash-timelocked payment: claimable by revealing the
// secret whose keccak256 equals Secrethash before Expiration, refundable
// to the sender afterwards.
type Lock struct {
	Amount      *uint256.Int
	Expiration  uint64
	Secrethash  Hash
}

// LockHash returns the keyed hash of the lock's packed fields — its
// Merkle leaf. The packing order (amount, expiration, secrethash) is
// bit-exact with the on-chain contract and must not change.
func (l Lock) LockHash() Hash {
	var amountBE, expirationBE [32]byte
	putUint256BE(amountBE[:], l.Amount)
	binary.BigEndian.PutUint64(expirationBE[24:], l.Expiration)

	return Hash(crypto.Keccak256(amountBE[:], expirationBE[:], l.Secrethash[:]))
}

// putUint256BE writes v as a 32-byte big-endian integer into dst. A nil v
// is treated as zero, matching the zero value of a freshly constructed
// Lock/BalanceProof amount.
func putUint256BE(dst []byte, v *uint256.Int) {
	if v == nil {
		return
	}
	b := v.Bytes32()
	copy(dst, b[:])
}
