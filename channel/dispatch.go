package channel

import (
	"github.com/nettinglabs/netting-core/crypto"
)

// Context bundles the collaborators a transition may need beyond the
// state and the change itself: the current block, an identifier
// generator for outgoing messages, a signing function for balance proofs
// we originate, and a signature recoverer for ones we validate. Block
// number/hash travel here as plain values (spec.md §6) rather than as
// separate StateTransition parameters; Context exists only to avoid a
// five-plus argument handler signature repeated across every case. The
// handlers below take block numbers from the state changes themselves.
type Context struct {
	BlockNumber uint64
	BlockHash   Hash
	IDGen       IDGenerator
	Sign        SignFunc
	Recoverer   crypto.Recoverer
}

// StateTransition is the single entry point of the transition dispatcher
// (component E, spec.md §4.E): a pure, synchronous function from
// (state, change) to (state', events). It dispatches on the concrete
// type of change via an exhaustive type switch; an unrecognized
// implementation of StateChange (there are none outside this package) is
// a no-op that returns the input unchanged, per spec.md §4.E.
//
// A nil returned ChannelState means the channel has been fully disposed
// (spec.md §3 lifecycle) and must be dropped by the caller.
func StateTransition(chanState *ChannelState, change StateChange, ctx Context) (*ChannelState, []Event) {
	switch c := change.(type) {
	case Block:
		return handleBlock(chanState, c)
	case ActionChannelClose:
		return handleActionChannelClose(chanState)
	case ActionChannelSetFee:
		return handleActionChannelSetFee(chanState, c)
	case ActionChannelWithdraw:
		return handleActionChannelWithdraw(chanState, c, ctx)
	case ContractReceiveChannelClosed:
		return handleContractReceiveChannelClosed(chanState, c)
	case ContractReceiveUpdateTransfer:
		return handleContractReceiveUpdateTransfer(chanState, c)
	case ContractReceiveChannelSettled:
		return handleContractReceiveChannelSettled(chanState, c)
	case ContractReceiveChannelNewBalance:
		return handleContractReceiveChannelNewBalance(chanState, c)
	case ContractReceiveChannelBatchUnlock:
		return handleContractReceiveChannelBatchUnlock(chanState, c)
	case ReceiveWithdrawRequest:
		return handleReceiveWithdrawRequest(chanState, c, ctx)
	default:
		return chanState, nil
	}
}

func handleBlock(chanState *ChannelState, c Block) (*ChannelState, []Event) {
	for _, deposit := range chanState.PopConfirmedDeposits(c.BlockNumber) {
		chanState.ApplyConfirmedDeposit(deposit)
	}

	var events []Event
	if chanState.Status() == StatusClosed {
		closedBlock := chanState.CloseTransaction.FinishedBlockNumber
		if c.BlockNumber > closedBlock+chanState.SettleTimeout {
			chanState.SettleTransaction = &TransactionRecord{StartedBlockNumber: c.BlockNumber}
			events = append(events, ContractSendChannelSettle{ChannelIdentity: chanState.Identity})
		}
	}
	return chanState, events
}

func handleActionChannelClose(chanState *ChannelState) (*ChannelState, []Event) {
	if !IsPriorToClosed(chanState.Status()) {
		return chanState, nil
	}
	chanState.CloseTransaction = &TransactionRecord{}
	return chanState, []Event{ContractSendChannelClose{
		ChannelIdentity: chanState.Identity,
		BalanceProof:    chanState.PartnerState.BalanceProof,
	}}
}

func handleActionChannelSetFee(chanState *ChannelState, c ActionChannelSetFee) (*ChannelState, []Event) {
	chanState.MediationFee = c.Fee
	return chanState, nil
}

func handleActionChannelWithdraw(chanState *ChannelState, c ActionChannelWithdraw, ctx Context) (*ChannelState, []Event) {
	if !IsPriorToClosed(chanState.Status()) {
		return chanState, nil
	}
	balance := Balance(chanState.OurState, chanState.PartnerState)
	if balance.Cmp(c.Amount) < 0 {
		return chanState, nil
	}
	return chanState, []Event{SendWithdrawRequest{
		Recipient:         chanState.PartnerState.Address,
		Amount:            c.Amount,
		MessageIdentifier: ctx.IDGen(),
	}}
}

func handleContractReceiveChannelClosed(chanState *ChannelState, c ContractReceiveChannelClosed) (*ChannelState, []Event) {
	if chanState.CloseTransaction == nil {
		chanState.CloseTransaction = &TransactionRecord{}
	}
	chanState.SetClosed(c.BlockNumber)

	var events []Event
	partnerClosed := c.ClosingParticipant == chanState.PartnerState.Address
	if partnerClosed && chanState.PartnerState.BalanceProof != nil && chanState.UpdateTransaction == nil {
		chanState.UpdateTransaction = &TransactionRecord{StartedBlockNumber: c.BlockNumber}
		events = append(events, ContractSendChannelUpdateTransfer{
			ChannelIdentity: chanState.Identity,
			BalanceProof:    *chanState.PartnerState.BalanceProof,
		})
	}
	return chanState, events
}

func handleContractReceiveUpdateTransfer(chanState *ChannelState, c ContractReceiveUpdateTransfer) (*ChannelState, []Event) {
	if chanState.UpdateTransaction != nil {
		chanState.UpdateTransaction.Finished = true
		chanState.UpdateTransaction.FinishedBlockNumber = c.BlockNumber
		chanState.UpdateTransaction.Result = TransactionResultSuccess
	}
	return chanState, nil
}

func handleContractReceiveChannelSettled(chanState *ChannelState, c ContractReceiveChannelSettled) (*ChannelState, []Event) {
	if chanState.SettleTransaction == nil {
		chanState.SettleTransaction = &TransactionRecord{}
	}
	chanState.SetSettled(c.BlockNumber)

	chanState.OurState.OnchainLocksroot = c.OurOnchainLocksroot
	chanState.PartnerState.OnchainLocksroot = c.PartnerOnchainLocksroot

	if chanState.BothOnchainLocksrootsEmpty() {
		return nil, nil
	}

	var events []Event
	if chanState.OurState.OnchainLocksroot != EmptyRoot {
		events = append(events, ContractSendChannelBatchUnlock{
			ChannelIdentity: chanState.Identity,
			Participant:     chanState.OurState.Address,
		})
	}
	if chanState.PartnerState.OnchainLocksroot != EmptyRoot {
		events = append(events, ContractSendChannelBatchUnlock{
			ChannelIdentity: chanState.Identity,
			Participant:     chanState.PartnerState.Address,
		})
	}
	return chanState, events
}

func handleContractReceiveChannelNewBalance(chanState *ChannelState, c ContractReceiveChannelNewBalance) (*ChannelState, []Event) {
	deposit := PendingDeposit{
		BlockNumber:     c.DepositBlockNumber,
		ParticipantAddr: c.ParticipantAddr,
		TotalDeposit:    c.TotalDeposit,
	}
	if c.DepositBlockNumber+DefaultConfirmations <= c.BlockNumber {
		chanState.ApplyConfirmedDeposit(deposit)
	} else {
		chanState.QueueDeposit(deposit)
	}
	return chanState, nil
}

func handleContractReceiveChannelBatchUnlock(chanState *ChannelState, c ContractReceiveChannelBatchUnlock) (*ChannelState, []Event) {
	if chanState.Status() != StatusSettled {
		return chanState, nil
	}

	switch c.Participant {
	case chanState.OurState.Address:
		chanState.OurState.OnchainLocksroot = EmptyRoot
	case chanState.PartnerState.Address:
		chanState.PartnerState.OnchainLocksroot = EmptyRoot
	}

	if chanState.BothOnchainLocksrootsEmpty() {
		return nil, nil
	}
	return chanState, nil
}

// TODO: this only checks the requested amount against the partner's
// current balance, not against the cumulative total_withdraw the partner
// has already claimed plus this request — a partner able to replay an
// old signed withdraw request for an amount still under the current
// balance can re-withdraw it. Needs a monotonically increasing
// total_withdraw nonce carried in the request, checked and bumped here,
// mirroring how ReceiveLockedTransfer's nonce check prevents balance
// proof replay.
func handleReceiveWithdrawRequest(chanState *ChannelState, c ReceiveWithdrawRequest, ctx Context) (*ChannelState, []Event) {
	signer, err := ctx.Recoverer.Recover(c.PackedBytes, c.Signature)
	if err != nil || Address(signer) != chanState.PartnerState.Address {
		return chanState, []Event{EventInvalidReceivedWithdrawRequest{Reason: "withdraw request signature does not recover to partner"}}
	}

	balance := Balance(chanState.PartnerState, chanState.OurState)
	if balance.Cmp(c.Amount) < 0 {
		return chanState, []Event{EventInvalidReceivedWithdrawRequest{Reason: "requested withdraw amount exceeds partner balance"}}
	}

	return chanState, []Event{SendWithdraw{
		Recipient:         chanState.PartnerState.Address,
		Amount:            c.Amount,
		MessageIdentifier: ctx.IDGen(),
	}}
}
