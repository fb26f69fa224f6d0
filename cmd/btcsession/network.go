package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var network = cli.Command{
	Name:   "network",
	Usage:  "print the network selected for new sessions",
	Action: getNetworkAction,
	Subcommands: []*cli.Command{
		{
			Name:      "set",
			Usage:     "select the <network> used for new sessions",
			ArgsUsage: "<network>",
			Action:    setNetworkAction,
		},
	},
}

func getNetworkAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply map[string]string
	if err := client.do(http.MethodGet, "/v1/network", nil, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func setNetworkAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply map[string]string
	if err := client.do(http.MethodPut, "/v1/network", map[string]string{
		"network": ctx.Args().First(),
	}, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
