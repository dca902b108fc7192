package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var withdraw = cli.Command{
	Name:  "withdraw",
	Usage: "claim an open swap by revealing the preimage",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the swap id, hex of its hashlock",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "preimage",
			Usage:    "hex encoded preimage of the swap hashlock",
			Required: true,
		},
	},
	Action: withdrawAction,
}

func withdrawAction(ctx *cli.Context) error {
	body, err := json.Marshal(map[string]string{
		"preimage": ctx.String("preimage"),
	})
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v1/swaps/%s/withdraw", ctx.String("id"))
	resp, err := request(http.MethodPost, path, body)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
