package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var refund = cli.Command{
	Name:  "refund",
	Usage: "recover the escrowed funds of an expired swap",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the swap id, hex of its hashlock",
			Required: true,
		},
	},
	Action: refundAction,
}

func refundAction(ctx *cli.Context) error {
	path := fmt.Sprintf("/v1/swaps/%s/refund", ctx.String("id"))
	resp, err := request(http.MethodPost, path, nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
