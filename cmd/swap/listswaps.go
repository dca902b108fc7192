package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var listswaps = cli.Command{
	Name:   "listswaps",
	Usage:  "list all swaps known to the daemon",
	Action: listSwapsAction,
}

func listSwapsAction(ctx *cli.Context) error {
	resp, err := request(http.MethodGet, "/v1/swaps", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
