package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var getswap = cli.Command{
	Name:  "getswap",
	Usage: "fetch a swap by its id",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the swap id, hex of its hashlock",
			Required: true,
		},
	},
	Action: getSwapAction,
}

func getSwapAction(ctx *cli.Context) error {
	path := fmt.Sprintf("/v1/swaps/%s", ctx.String("id"))
	resp, err := request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
