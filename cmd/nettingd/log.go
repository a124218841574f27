package main

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/nettinglabs/netting-core/channel"
)

// backendLog is the single btclog.Backend nettingd's subsystems draw their
// loggers from, mirroring lnd.go's process-wide log backend.
var backendLog = btclog.NewBackend(os.Stdout)

var log = backendLog.Logger("NTNG")

// initLogging wires every subsystem's logger, the way lnd.go's
// initLogRotator/UseLogger call sites do for each lnd package.
func initLogging(level btclog.Level) {
	log.SetLevel(level)

	chanLog := backendLog.Logger("CHAN")
	chanLog.SetLevel(level)
	channel.UseLogger(chanLog)
}
