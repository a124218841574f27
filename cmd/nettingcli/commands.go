package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/nettinglabs/netting-core/control"
)

func clientFromCtx(ctx *cli.Context) *control.Client {
	return control.NewClient(ctx.GlobalString("socketpath"))
}

var statusCommand = cli.Command{
	Name:      "status",
	Usage:     "display the status of a channel",
	ArgsUsage: "channel-id",
	Action:    status,
}

func status(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "status")
	}
	var channelID uint64
	if _, err := fmt.Sscan(ctx.Args().First(), &channelID); err != nil {
		return fmt.Errorf("invalid channel id: %w", err)
	}

	resp, err := clientFromCtx(ctx).Call(control.Request{
		Command:   "status",
		ChannelID: channelID,
	})
	if err != nil {
		return err
	}

	s := resp.Status
	fmt.Printf("channel %d: %s\n", s.ChannelID, s.Status)
	fmt.Printf("  our contract balance:     %s\n", s.OurContractBalance)
	fmt.Printf("  partner contract balance: %s\n", s.PartnerContractBalance)
	fmt.Printf("  our balance:              %s\n", s.OurBalance)
	fmt.Printf("  partner balance:          %s\n", s.PartnerBalance)
	fmt.Printf("  pending locks:            %d\n", s.PendingLocks)
	return nil
}

var depositCommand = cli.Command{
	Name:      "deposit",
	Usage:     "simulate an on-chain deposit of amount to our side of a channel",
	ArgsUsage: "channel-id amount",
	Action:    deposit,
}

func deposit(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.ShowCommandHelp(ctx, "deposit")
	}
	var channelID uint64
	if _, err := fmt.Sscan(ctx.Args().Get(0), &channelID); err != nil {
		return fmt.Errorf("invalid channel id: %w", err)
	}

	_, err := clientFromCtx(ctx).Call(control.Request{
		Command:   "deposit",
		ChannelID: channelID,
		Amount:    ctx.Args().Get(1),
	})
	if err != nil {
		return err
	}
	fmt.Println("deposit recorded")
	return nil
}

var closeCommand = cli.Command{
	Name:      "close",
	Usage:     "request an on-chain close of a channel",
	ArgsUsage: "channel-id",
	Action:    closeChannel,
}

func closeChannel(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "close")
	}
	var channelID uint64
	if _, err := fmt.Sscan(ctx.Args().First(), &channelID); err != nil {
		return fmt.Errorf("invalid channel id: %w", err)
	}

	_, err := clientFromCtx(ctx).Call(control.Request{
		Command:   "close",
		ChannelID: channelID,
	})
	if err != nil {
		return err
	}
	fmt.Println("close requested")
	return nil
}
