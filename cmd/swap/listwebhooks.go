package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var listwebhooks = cli.Command{
	Name:  "listwebhooks",
	Usage: "list registered webhooks",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "only list webhooks registered for this event",
			Value: "",
		},
	},
	Action: listWebhooksAction,
}

func listWebhooksAction(ctx *cli.Context) error {
	path := "/v1/subscriptions"
	if topic := ctx.String("topic"); len(topic) > 0 {
		path = fmt.Sprintf("%s?topic=%s", path, topic)
	}

	resp, err := request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
