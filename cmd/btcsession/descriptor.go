package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var descriptor = cli.Command{
	Name:  "descriptor",
	Usage: "derive the BIP84 descriptor of an extended key",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "key",
			Usage:    "the base58 encoded extended key",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "network",
			Usage: "mainnet, testnet, testnet4, signet or regtest, defaults to the daemon's one",
		},
		&cli.BoolFlag{
			Name:  "change",
			Usage: "derive the internal (change) descriptor",
		},
	},
	Action: deriveDescriptorAction,
}

func deriveDescriptorAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply map[string]string
	if err := client.do(http.MethodPost, "/v1/descriptors", map[string]interface{}{
		"extended_key": ctx.String("key"),
		"network":      ctx.String("network"),
		"is_change":    ctx.Bool("change"),
	}, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
