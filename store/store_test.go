package store

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/nettinglabs/netting-core/channel"
)

func testChannelState() *channel.ChannelState {
	our := channel.NewEndState(channel.Address{0x01}, uint256.NewInt(100))
	partner := channel.NewEndState(channel.Address{0x02}, uint256.NewInt(50))
	identity := channel.ChannelIdentity{
		ChainID:             1,
		TokenNetworkAddress: channel.Address{0xAA},
		ChannelID:           7,
	}
	return channel.NewChannelState(identity, channel.Address{0xBB}, our, partner, 40, 500)
}

func TestPutFetchChannelStateRoundTrip(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	cs := testChannelState()
	if err := db.PutChannelState(cs); err != nil {
		t.Fatalf("PutChannelState: %v", err)
	}

	got, err := db.FetchChannelState(cs.Identity.ChannelID)
	if err != nil {
		t.Fatalf("FetchChannelState: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a stored snapshot")
	}
	if got.Identity != cs.Identity {
		t.Fatalf("identity = %+v, want %+v", got.Identity, cs.Identity)
	}
	if got.OurState.ContractBalance.Cmp(cs.OurState.ContractBalance) != 0 {
		t.Fatalf("our contract balance = %v, want %v", got.OurState.ContractBalance, cs.OurState.ContractBalance)
	}
	if got.PartnerState.ContractBalance.Cmp(cs.PartnerState.ContractBalance) != 0 {
		t.Fatalf("partner contract balance = %v, want %v", got.PartnerState.ContractBalance, cs.PartnerState.ContractBalance)
	}
}

func TestFetchChannelStateMissingReturnsNil(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	got, err := db.FetchChannelState(999)
	if err != nil {
		t.Fatalf("FetchChannelState: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for an unwritten channel")
	}
}

func TestDeleteChannelState(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	cs := testChannelState()
	if err := db.PutChannelState(cs); err != nil {
		t.Fatalf("PutChannelState: %v", err)
	}
	if err := db.DeleteChannelState(cs.Identity.ChannelID); err != nil {
		t.Fatalf("DeleteChannelState: %v", err)
	}

	got, err := db.FetchChannelState(cs.Identity.ChannelID)
	if err != nil {
		t.Fatalf("FetchChannelState: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete")
	}
}
