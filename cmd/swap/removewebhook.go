package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var removewebhook = cli.Command{
	Name:  "removewebhook",
	Usage: "remove a registered webhook",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the id of the webhook to remove",
			Required: true,
		},
	},
	Action: removeWebhookAction,
}

func removeWebhookAction(ctx *cli.Context) error {
	path := fmt.Sprintf("/v1/subscriptions/%s", ctx.String("id"))
	if _, err := request(http.MethodDelete, path, nil); err != nil {
		return err
	}

	fmt.Println("webhook removed")
	return nil
}
