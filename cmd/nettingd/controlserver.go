package main

import (
	"encoding/json"
	"net"
	"os"
	"time"

	"github.com/holiman/uint256"

	"github.com/nettinglabs/netting-core/channel"
	"github.com/nettinglabs/netting-core/control"
)

// controlServer listens on a Unix socket and decodes one control.Request
// per connection, the operator-facing counterpart to nettingcli's
// control.Client.
type controlServer struct {
	d        *daemon
	listener net.Listener
}

func newControlServer(d *daemon, socketPath string) (*controlServer, error) {
	_ = os.Remove(socketPath)
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return &controlServer{d: d, listener: listener}, nil
}

func (s *controlServer) Serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			log.Debugf("control listener closed: %v", err)
			return
		}
		go s.handle(conn)
	}
}

func (s *controlServer) Close() error {
	return s.listener.Close()
}

func (s *controlServer) handle(conn net.Conn) {
	defer conn.Close()

	var req control.Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.respond(conn, control.Response{OK: false, Error: err.Error()})
		return
	}

	switch req.Command {
	case "status":
		s.handleStatus(conn, req)
	case "deposit":
		s.handleDeposit(conn, req)
	case "close":
		s.handleClose(conn, req)
	default:
		s.respond(conn, control.Response{OK: false, Error: "unknown command: " + req.Command})
	}
}

func (s *controlServer) handleStatus(conn net.Conn, req control.Request) {
	cs := s.d.ChannelState()
	if cs == nil || cs.Identity.ChannelID != req.ChannelID {
		s.respond(conn, control.Response{OK: false, Error: "no such channel"})
		return
	}

	view := &control.ChannelStatusView{
		ChannelID:              cs.Identity.ChannelID,
		Status:                 cs.Status().String(),
		OurContractBalance:     cs.OurState.ContractBalance.String(),
		PartnerContractBalance: cs.PartnerState.ContractBalance.String(),
		OurBalance:             channel.Balance(cs.OurState, cs.PartnerState).String(),
		PartnerBalance:         channel.Balance(cs.PartnerState, cs.OurState).String(),
		PendingLocks:           len(cs.OurState.LockedLocks) + len(cs.PartnerState.LockedLocks),
	}
	s.respond(conn, control.Response{OK: true, Status: view})
}

// handleDeposit simulates an observed on-chain deposit event for our own
// side. A real on-chain RPC client is out of scope (spec.md §1); this is
// the manual stand-in an operator uses to exercise the deposit-queue
// confirmation discipline without one.
func (s *controlServer) handleDeposit(conn net.Conn, req control.Request) {
	cs := s.d.ChannelState()
	if cs == nil || cs.Identity.ChannelID != req.ChannelID {
		s.respond(conn, control.Response{OK: false, Error: "no such channel"})
		return
	}

	amount, ok := new(uint256.Int).SetString(req.Amount, 10)
	if !ok {
		s.respond(conn, control.Response{OK: false, Error: "invalid amount"})
		return
	}
	totalDeposit := new(uint256.Int).Add(cs.OurState.ContractBalance, amount)

	log.Infof("operator-simulated deposit of %s accepted at %s, will confirm after %d blocks",
		amount, s.d.clk.Now().Format(time.RFC3339), channel.DefaultConfirmations)

	s.d.SubmitChange(channel.ContractReceiveChannelNewBalance{
		ParticipantAddr: cs.OurState.Address,
		TotalDeposit:    totalDeposit,
	})
	s.respond(conn, control.Response{OK: true})
}

func (s *controlServer) handleClose(conn net.Conn, req control.Request) {
	s.d.SubmitChange(channel.ActionChannelClose{})
	s.respond(conn, control.Response{OK: true})
}

func (s *controlServer) respond(conn net.Conn, resp control.Response) {
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		log.Errorf("failed to write control response: %v", err)
	}
}
