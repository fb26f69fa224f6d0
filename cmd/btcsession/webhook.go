package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the webhooks notified about session events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook registered for some event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the endpoint where to notify the webhook",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the eventual secret to authenticate requests",
				},
				&cli.StringFlag{
					Name:  "event",
					Usage: "the event for which the webhook gets notified, * for all",
					Value: "*",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:   "list",
			Usage:  "list all registered webhooks",
			Action: listWebhooksAction,
		},
		{
			Name:   "remove",
			Usage:  "remove the webhook with the given id",
			Action: removeWebhookAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the webhook to remove",
					Required: true,
				},
			},
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply map[string]string
	if err := client.do(http.MethodPost, "/v1/webhooks", map[string]string{
		"event":    ctx.String("event"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	}, &reply); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("hook id:", reply["id"])
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	var reply []map[string]interface{}
	if err := client.do(http.MethodGet, "/v1/webhooks", nil, &reply); err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	path := "/v1/webhooks?id=" + url.QueryEscape(ctx.String("id"))
	if err := client.do(http.MethodDelete, path, nil, nil); err != nil {
		return err
	}

	fmt.Println("webhook removed")
	return nil
}
