package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "btc session daemon address host:port",
		Value: "localhost:9945",
	}

	tlsCertFlag = cli.StringFlag{
		Name:  "tls_cert_path",
		Usage: "the path of the daemon's TLS certificate",
		Value: filepath.Join(
			btcutil.AppDataDir("btc-session-daemon", false), "tls", "cert.pem",
		),
	}

	noTLSFlag = cli.BoolFlag{
		Name:  "no_tls",
		Usage: "connect to the daemon without TLS",
		Value: false,
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the btc session CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&tlsCertFlag,
				&noTLSFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"rpcserver":     c.String("rpcserver"),
		"tls_cert_path": c.String("tls_cert_path"),
		"no_tls":        fmt.Sprintf("%t", c.Bool("no_tls")),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}
