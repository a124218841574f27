// Package store provides a reference bbolt-backed snapshot store for
// channel.ChannelState, grounded on channeldb's DB.Update/View + bucket-
// cursor idiom (channeldb/db.go), ported from the older boltdb/bolt fork
// the teacher depends on to the actively maintained go.etcd.io/bbolt.
//
// This is a restart-recovery aid, not a specified wire/storage format:
// spec.md scopes persistence format out, and the snapshot below only
// captures what NewChannelState plus the end-states and lock maps need
// (merkle trees are recomputed from their leaf sets rather than persisted
// layer-by-layer). Transaction records, the deposit queue and the
// merkle-tree history are not captured, so a restored ChannelState is not
// an exact copy (see decodeChannelState).
package store

import (
	"bytes"
	"encoding/gob"

	"github.com/holiman/uint256"

	"github.com/nettinglabs/netting-core/channel"
)

type lockSnapshot struct {
	Amount     []byte
	Expiration uint64
	Secrethash channel.Hash
}

type unlockedLockSnapshot struct {
	Lock   lockSnapshot
	Secret channel.Hash
}

type balanceProofSnapshot struct {
	Nonce             uint64
	TransferredAmount []byte
	LockedAmount      []byte
	Locksroot         channel.Hash
	MessageHash       channel.Hash
	Signature         []byte
}

type endStateSnapshot struct {
	Address              channel.Address
	ContractBalance      []byte
	TotalWithdraw        []byte
	BalanceProof         *balanceProofSnapshot
	MerkleLeaves         []channel.Hash
	LockedLocks          []lockSnapshot
	UnlockedLocks        []unlockedLockSnapshot
	OnchainUnlockedLocks []unlockedLockSnapshot
	OnchainLocksroot     channel.Hash
}

// channelSnapshot is the gob-encodable projection of a channel.ChannelState
// stored under one channel's bucket key.
type channelSnapshot struct {
	Identity      channel.ChannelIdentity
	TokenAddress  channel.Address
	RevealTimeout uint64
	SettleTimeout uint64
	MediationFee  []byte
	Our           endStateSnapshot
	Partner       endStateSnapshot
}

func snapshotLock(l channel.Lock) lockSnapshot {
	return lockSnapshot{
		Amount:     l.Amount.Bytes(),
		Expiration: l.Expiration,
		Secrethash: l.Secrethash,
	}
}

func restoreLock(s lockSnapshot) channel.Lock {
	return channel.Lock{
		Amount:     new(uint256.Int).SetBytes(s.Amount),
		Expiration: s.Expiration,
		Secrethash: s.Secrethash,
	}
}

func snapshotEndState(e *channel.EndState) endStateSnapshot {
	s := endStateSnapshot{
		Address:          e.Address,
		ContractBalance:  e.ContractBalance.Bytes(),
		TotalWithdraw:    e.TotalWithdraw.Bytes(),
		MerkleLeaves:     e.MerkleTree.Leaves(),
		OnchainLocksroot: e.OnchainLocksroot,
	}
	if e.BalanceProof != nil {
		bp := e.BalanceProof
		s.BalanceProof = &balanceProofSnapshot{
			Nonce:             bp.Nonce,
			TransferredAmount: bp.TransferredAmount.Bytes(),
			LockedAmount:      bp.LockedAmount.Bytes(),
			Locksroot:         bp.Locksroot,
			MessageHash:       bp.MessageHash,
			Signature:         bp.Signature,
		}
	}
	for _, l := range e.LockedLocks {
		s.LockedLocks = append(s.LockedLocks, snapshotLock(l))
	}
	for _, ul := range e.UnlockedLocks {
		lock, secret := channel.UnlockedLockParts(ul)
		s.UnlockedLocks = append(s.UnlockedLocks, unlockedLockSnapshot{
			Lock:   snapshotLock(lock),
			Secret: secret,
		})
	}
	for _, ul := range e.OnchainUnlockedLocks {
		lock, secret := channel.UnlockedLockParts(ul)
		s.OnchainUnlockedLocks = append(s.OnchainUnlockedLocks, unlockedLockSnapshot{
			Lock:   snapshotLock(lock),
			Secret: secret,
		})
	}
	return s
}

func restoreEndState(s endStateSnapshot) (*channel.EndState, error) {
	e := channel.NewEndState(s.Address, new(uint256.Int).SetBytes(s.ContractBalance))
	e.TotalWithdraw = new(uint256.Int).SetBytes(s.TotalWithdraw)
	e.OnchainLocksroot = s.OnchainLocksroot

	e.MerkleTree = channel.NewMerkleTree(s.MerkleLeaves)

	for _, ls := range s.LockedLocks {
		l := restoreLock(ls)
		e.LockedLocks[l.Secrethash] = l
	}
	for _, uls := range s.UnlockedLocks {
		channel.PutUnlockedLock(e.UnlockedLocks, restoreLock(uls.Lock), uls.Secret)
	}
	for _, uls := range s.OnchainUnlockedLocks {
		channel.PutUnlockedLock(e.OnchainUnlockedLocks, restoreLock(uls.Lock), uls.Secret)
	}

	if s.BalanceProof != nil {
		bp := s.BalanceProof
		e.BalanceProof = &channel.BalanceProof{
			UnsignedBalanceProof: channel.UnsignedBalanceProof{
				Nonce:             bp.Nonce,
				TransferredAmount: new(uint256.Int).SetBytes(bp.TransferredAmount),
				LockedAmount:      new(uint256.Int).SetBytes(bp.LockedAmount),
				Locksroot:         bp.Locksroot,
				ChannelIdentity:   channel.ChannelIdentity{},
				MessageHash:       bp.MessageHash,
			},
			Signature: bp.Signature,
		}
	}
	return e, nil
}

// encodeChannelState projects cs into a gob-encoded snapshot.
func encodeChannelState(cs *channel.ChannelState) ([]byte, error) {
	snap := channelSnapshot{
		Identity:      cs.Identity,
		TokenAddress:  cs.TokenAddress,
		RevealTimeout: cs.RevealTimeout,
		SettleTimeout: cs.SettleTimeout,
		MediationFee:  cs.MediationFee.Bytes(),
		Our:           snapshotEndState(cs.OurState),
		Partner:       snapshotEndState(cs.PartnerState),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeChannelState rebuilds a channel.ChannelState from a snapshot
// produced by encodeChannelState. Close/settle/update transaction records
// and the deposit queue are intentionally not persisted: on restart the
// daemon re-derives channel status from fresh on-chain watcher events
// rather than trusting a stale snapshot of in-flight transaction state.
func decodeChannelState(data []byte) (*channel.ChannelState, error) {
	var snap channelSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, err
	}

	our, err := restoreEndState(snap.Our)
	if err != nil {
		return nil, err
	}
	partner, err := restoreEndState(snap.Partner)
	if err != nil {
		return nil, err
	}
	if our.BalanceProof != nil {
		our.BalanceProof.ChannelIdentity = snap.Identity
	}
	if partner.BalanceProof != nil {
		partner.BalanceProof.ChannelIdentity = snap.Identity
	}

	cs := channel.NewChannelState(snap.Identity, snap.TokenAddress, our, partner, snap.RevealTimeout, snap.SettleTimeout)
	cs.MediationFee = new(uint256.Int).SetBytes(snap.MediationFee)
	return cs, nil
}
