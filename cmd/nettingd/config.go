package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultDataDir    = "data"
	defaultSocketPath = "/tmp/nettingd.sock"
	defaultLogLevel   = "info"

	// defaultBlockTickInterval drives the synthetic Block state change in
	// the absence of a real chain backend (spec.md scopes the on-chain RPC
	// client out of the core; nettingd supplies a ticking stand-in).
	defaultBlockTickInterval = "10s"
)

// NettingConfig is nettingd's full set of startup parameters, parsed by
// jessevdk/go-flags the way the teacher's lnd binary parses its own config
// struct with btcsuite/go-flags (lnd.go); the struct-tag-driven flag
// declaration idiom is identical, only the fork differs.
type NettingConfig struct {
	DataDir    string `long:"datadir" description:"directory to store channel snapshots in"`
	SocketPath string `long:"socketpath" description:"path for the operator control socket"`
	LogLevel   string `long:"loglevel" description:"logging level {trace, debug, info, warn, error, critical}"`

	BlockTickInterval string `long:"blocktickinterval" description:"synthetic block-tick period (Go duration syntax)"`

	ChainID             uint64 `long:"chainid" description:"chain identifier the channel is anchored on"`
	TokenNetworkAddress string `long:"tokennetworkaddress" description:"hex-encoded token network contract address"`
	ChannelID           uint64 `long:"channelid" description:"channel identifier to manage"`
	TokenAddress        string `long:"tokenaddress" description:"hex-encoded ERC20 token address"`

	OurAddress      string `long:"ouraddress" description:"hex-encoded address of our side"`
	PartnerAddress  string `long:"partneraddress" description:"hex-encoded address of the partner"`
	OurDeposit      uint64 `long:"ourdeposit" description:"initial contract balance of our side"`
	PartnerDeposit  uint64 `long:"partnerdeposit" description:"initial contract balance of the partner side"`

	RevealTimeout uint64 `long:"revealtimeout" description:"blocks a lock holder has to reveal its secret"`
	SettleTimeout uint64 `long:"settletimeout" description:"blocks after close before settle is submitted"`
}

// defaultConfig returns a NettingConfig with the teacher's pattern of
// sensible zero-config defaults, overridden by flags.Parse.
func defaultConfig() NettingConfig {
	return NettingConfig{
		DataDir:           defaultDataDir,
		SocketPath:        defaultSocketPath,
		LogLevel:          defaultLogLevel,
		BlockTickInterval: defaultBlockTickInterval,
		RevealTimeout:     40,
		SettleTimeout:     500,
	}
}

// loadConfig parses command-line flags into a NettingConfig seeded with
// defaults, mirroring lnd.go's flags.NewParser(&cfg, ...).Parse() call.
func loadConfig() (*NettingConfig, error) {
	cfg := defaultConfig()

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	return &cfg, nil
}

func parseLogLevel(level string) (btclog.Level, error) {
	l, ok := btclog.LevelFromString(level)
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}
