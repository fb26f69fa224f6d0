package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var address = cli.Command{
	Name:  "address",
	Usage: "get a receive address of the current wallet session",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "index",
			Usage: "the derivation index of the address, the next unused one if omitted",
			Value: -1,
		},
	},
	Action: addressAction,
}

func addressAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	path := "/v1/address"
	if index := ctx.Int64("index"); index >= 0 {
		path = fmt.Sprintf("%s?index=%d", path, index)
	}

	var reply map[string]string
	if err := client.do(http.MethodGet, path, nil, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
