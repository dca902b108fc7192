package main

import (
	"encoding/json"
	"net/http"

	"github.com/urfave/cli/v2"
)

var deposit = cli.Command{
	Name:  "deposit",
	Usage: "credit funds to the account of the configured identity",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the asset to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to credit",
			Required: true,
		},
	},
	Action: depositAction,
}

func depositAction(ctx *cli.Context) error {
	body, err := json.Marshal(map[string]string{
		"asset":  ctx.String("asset"),
		"amount": ctx.String("amount"),
	})
	if err != nil {
		return err
	}

	resp, err := request(http.MethodPost, "/v1/deposits", body)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
