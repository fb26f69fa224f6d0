package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var connect = cli.Command{
	Name:  "connect",
	Usage: "create a new wallet session, replacing the current one",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "network",
			Usage: "mainnet, testnet, testnet4, signet or regtest, defaults to the daemon's one",
		},
		&cli.StringFlag{
			Name:  "external",
			Usage: "the external (receive) descriptor",
		},
		&cli.StringFlag{
			Name:  "internal",
			Usage: "the internal (change) descriptor",
		},
		&cli.StringFlag{
			Name:  "key",
			Usage: "the extended key to derive both descriptors from",
		},
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the space separated mnemonic the key comes from, if any",
		},
	},
	Action: connectAction,
}

var status = cli.Command{
	Name:   "status",
	Usage:  "returns info about the current wallet session",
	Action: statusAction,
}

var disconnect = cli.Command{
	Name:   "disconnect",
	Usage:  "close the current wallet session",
	Action: disconnectAction,
}

var clearWallet = cli.Command{
	Name:   "clear",
	Usage:  "close the current wallet session and wipe every stored wallet data",
	Action: clearAction,
}

func connectAction(ctx *cli.Context) error {
	key := ctx.String("key")
	external := ctx.String("external")
	internal := ctx.String("internal")
	if len(key) <= 0 && (len(external) <= 0 || len(internal) <= 0) {
		return errors.New(
			"either --key or both --external and --internal descriptors are required",
		)
	}

	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply map[string]interface{}
	if err := client.do(http.MethodPost, "/v1/session", map[string]string{
		"network":             ctx.String("network"),
		"external_descriptor": external,
		"internal_descriptor": internal,
		"extended_key":        key,
		"mnemonic":            ctx.String("mnemonic"),
	}, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func statusAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply map[string]interface{}
	if err := client.do(http.MethodGet, "/v1/session", nil, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func disconnectAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	if err := client.do(http.MethodDelete, "/v1/session", nil, nil); err != nil {
		return err
	}

	fmt.Println("disconnected")
	return nil
}

func clearAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	if err := client.do(http.MethodDelete, "/v1/wallet", nil, nil); err != nil {
		return err
	}

	fmt.Println("wallet cleared")
	return nil
}
