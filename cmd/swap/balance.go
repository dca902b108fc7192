package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:  "balance",
	Usage: "show how much of an asset an identity holds",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "the identity to query, default is the configured one",
		},
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the asset to query",
			Required: true,
		},
	},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	owner := ctx.String("owner")
	if len(owner) <= 0 {
		identity, err := getIdentity()
		if err != nil {
			return err
		}
		owner = identity
	}

	path := fmt.Sprintf("/v1/balances/%s?asset=%s", owner, ctx.String("asset"))
	resp, err := request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
