package main

import "github.com/nettinglabs/netting-core/channel"

// EventSink is the narrow collaborator interface events are handed to
// after a transition, standing in for the messaging-transport and
// on-chain-RPC-client collaborators spec.md §1 scopes out of the core.
type EventSink interface {
	Handle(event channel.Event)
}

// loggingEventSink is nettingd's stand-in implementation: it logs every
// event rather than actually sending a message or submitting a
// transaction, since both are out of scope (spec.md §1) and this repo has
// no peer-to-peer transport or chain backend to hand them to.
type loggingEventSink struct{}

func (loggingEventSink) Handle(event channel.Event) {
	switch e := event.(type) {
	case channel.SendLockedTransfer:
		log.Infof("SendLockedTransfer to=%x lock_amount=%v msg_id=%v", e.Recipient, e.Lock.Amount, e.MessageIdentifier)
	case channel.SendBalanceProof:
		log.Infof("SendBalanceProof to=%x nonce=%v msg_id=%v", e.Recipient, e.BalanceProof.Nonce, e.MessageIdentifier)
	case channel.SendLockExpired:
		log.Infof("SendLockExpired to=%x secrethash=%x msg_id=%v", e.Recipient, e.Secrethash, e.MessageIdentifier)
	case channel.SendRefundTransfer:
		log.Infof("SendRefundTransfer to=%x msg_id=%v", e.Recipient, e.MessageIdentifier)
	case channel.SendWithdrawRequest:
		log.Infof("SendWithdrawRequest to=%x amount=%v msg_id=%v", e.Recipient, e.Amount, e.MessageIdentifier)
	case channel.SendWithdraw:
		log.Infof("SendWithdraw to=%x amount=%v msg_id=%v", e.Recipient, e.Amount, e.MessageIdentifier)
	case channel.SendProcessed:
		log.Infof("SendProcessed to=%x msg_id=%v", e.Recipient, e.MessageIdentifier)
	case channel.ContractSendChannelClose:
		log.Infof("ContractSendChannelClose channel=%v", e.ChannelIdentity.ChannelID)
	case channel.ContractSendChannelSettle:
		log.Infof("ContractSendChannelSettle channel=%v", e.ChannelIdentity.ChannelID)
	case channel.ContractSendChannelUpdateTransfer:
		log.Infof("ContractSendChannelUpdateTransfer channel=%v nonce=%v", e.ChannelIdentity.ChannelID, e.BalanceProof.Nonce)
	case channel.ContractSendChannelBatchUnlock:
		log.Infof("ContractSendChannelBatchUnlock channel=%v participant=%x", e.ChannelIdentity.ChannelID, e.Participant)
	case channel.EventInvalidReceivedLockedTransfer:
		log.Warnf("EventInvalidReceivedLockedTransfer reason=%q", e.Reason)
	case channel.EventInvalidReceivedUnlock:
		log.Warnf("EventInvalidReceivedUnlock reason=%q", e.Reason)
	case channel.EventInvalidReceivedLockExpired:
		log.Warnf("EventInvalidReceivedLockExpired reason=%q", e.Reason)
	case channel.EventInvalidReceivedTransferRefund:
		log.Warnf("EventInvalidReceivedTransferRefund reason=%q", e.Reason)
	case channel.EventInvalidReceivedWithdrawRequest:
		log.Warnf("EventInvalidReceivedWithdrawRequest reason=%q", e.Reason)
	default:
		log.Warnf("unrecognized event type %T", event)
	}
}
