// Command nettingd is the payment-channel daemon: it loads (or
// bootstraps) one channel.ChannelState from a bbolt snapshot store and
// drives it with the queue/ticker host loop described in SPEC_FULL.md §5,
// mirroring the teacher's lndMain()/main() split (lnd.go) so that defers
// registered in the "real" entry point still run on a graceful exit.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/holiman/uint256"

	"github.com/nettinglabs/netting-core/channel"
	"github.com/nettinglabs/netting-core/store"
)

func parseAddress(s string) (channel.Address, error) {
	var addr channel.Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return addr, err
	}
	if len(b) != len(addr) {
		return addr, fmt.Errorf("address must be %d bytes, got %d", len(addr), len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

func nettingdMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	initLogging(level)

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer db.Close()

	chanState, err := db.FetchChannelState(cfg.ChannelID)
	if err != nil {
		return fmt.Errorf("loading channel snapshot: %w", err)
	}
	if chanState == nil {
		chanState, err = bootstrapChannelState(cfg)
		if err != nil {
			return fmt.Errorf("bootstrapping channel: %w", err)
		}
		log.Infof("bootstrapped new channel %d", cfg.ChannelID)
	} else {
		log.Infof("restored channel %d from snapshot", cfg.ChannelID)
	}

	tickInterval, err := time.ParseDuration(cfg.BlockTickInterval)
	if err != nil {
		return fmt.Errorf("invalid blocktickinterval: %w", err)
	}

	d := newDaemon(cfg, db, chanState, tickInterval)
	d.Start()
	defer d.Stop()

	ctrl, err := newControlServer(d, cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("starting control server: %w", err)
	}
	defer ctrl.Close()
	go ctrl.Serve()

	log.Infof("nettingd listening on %s", cfg.SocketPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	log.Info("shutting down")
	return nil
}

// bootstrapChannelState constructs a fresh ChannelState from the config's
// participant addresses and initial deposits, for a channel with no prior
// snapshot. A real deployment would instead observe the channel-opened
// on-chain event; since the chain RPC client is out of scope (spec.md
// §1), the initial state here is taken from flags.
func bootstrapChannelState(cfg *NettingConfig) (*channel.ChannelState, error) {
	ourAddr, err := parseAddress(cfg.OurAddress)
	if err != nil {
		return nil, fmt.Errorf("ouraddress: %w", err)
	}
	partnerAddr, err := parseAddress(cfg.PartnerAddress)
	if err != nil {
		return nil, fmt.Errorf("partneraddress: %w", err)
	}
	tokenNetworkAddr, err := parseAddress(cfg.TokenNetworkAddress)
	if err != nil {
		return nil, fmt.Errorf("tokennetworkaddress: %w", err)
	}
	tokenAddr, err := parseAddress(cfg.TokenAddress)
	if err != nil {
		return nil, fmt.Errorf("tokenaddress: %w", err)
	}

	identity := channel.ChannelIdentity{
		ChainID:             cfg.ChainID,
		TokenNetworkAddress: tokenNetworkAddr,
		ChannelID:           cfg.ChannelID,
	}

	ourState := channel.NewEndState(ourAddr, uint256.NewInt(cfg.OurDeposit))
	partnerState := channel.NewEndState(partnerAddr, uint256.NewInt(cfg.PartnerDeposit))

	return channel.NewChannelState(
		identity, tokenAddr, ourState, partnerState,
		cfg.RevealTimeout, cfg.SettleTimeout,
	), nil
}

func main() {
	if err := nettingdMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
