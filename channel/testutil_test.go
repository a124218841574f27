package channel

import (
	"crypto/ecdsa"

	gocrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/nettinglabs/netting-core/crypto"
)

// testParticipant bundles a keypair with the Address it derives, for
// constructing self-consistent signed balance proofs in tests.
type testParticipant struct {
	key  *ecdsa.PrivateKey
	addr Address
}

func newTestParticipant(seed byte) testParticipant {
	// Deterministic, distinct keys per seed byte; never used outside
	// tests.
	var b [32]byte
	for i := range b {
		b[i] = seed
	}
	b[31]++ // avoid the all-identical-byte key geth's secp256k1 rejects
	key, err := gocrypto.ToECDSA(b[:])
	if err != nil {
		panic(err)
	}
	var addr Address
	copy(addr[:], gocrypto.PubkeyToAddress(key.PublicKey).Bytes())
	return testParticipant{key: key, addr: addr}
}

func (p testParticipant) sign(data []byte) ([]byte, error) {
	digest := gocrypto.Keccak256(data)
	return gocrypto.Sign(digest, p.key)
}

// testRecoverer adapts crypto.GoEthereumRecoverer for local use.
var testRecoverer crypto.Recoverer = crypto.GoEthereumRecoverer{}

func u256(v uint64) *uint256.Int { return uint256.NewInt(v) }

// hashOf is a test-only keccak256 helper used to derive a secrethash from
// a secret preimage.
func hashOf(data []byte) Hash {
	return Hash(gocrypto.Keccak256Hash(data))
}

func sequentialIDGen() IDGenerator {
	var n uint64
	return func() uint64 {
		n++
		return n
	}
}

// newTestChannel builds an opened channel between "our" and "partner"
// with the given contract balances, ready for locked transfers.
func newTestChannel(ourBalance, partnerBalance uint64) (*ChannelState, testParticipant, testParticipant) {
	our := newTestParticipant(0x01)
	partner := newTestParticipant(0x02)

	ourState := NewEndState(our.addr, u256(ourBalance))
	partnerState := NewEndState(partner.addr, u256(partnerBalance))

	identity := ChannelIdentity{
		ChainID:             1,
		TokenNetworkAddress: Address{0xAA},
		ChannelID:           42,
	}

	cs := NewChannelState(identity, Address{0xBB}, ourState, partnerState, 40, 500)
	return cs, our, partner
}
