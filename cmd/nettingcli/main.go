// Command nettingcli is the operator control plane for nettingd, mirroring
// cmd/lncli's app/subcommand structure (urfave/cli) but talking to the
// daemon over a JSON-over-Unix-socket control transport instead of gRPC:
// spec.md scopes wire serialization out of the core, so the transport here
// is a narrow, swappable collaborator rather than a specified format.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

const defaultSocketPath = "/tmp/nettingd.sock"

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[nettingcli] %v\n", err)
	os.Exit(1)
}

func main() {
	app := cli.NewApp()
	app.Name = "nettingcli"
	app.Version = "0.1"
	app.Usage = "control plane for nettingd"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "socketpath",
			Value: defaultSocketPath,
			Usage: "path to nettingd's control socket",
		},
	}
	app.Commands = []cli.Command{
		statusCommand,
		depositCommand,
		closeCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
