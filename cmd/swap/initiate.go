package main

import (
	"encoding/json"
	"net/http"

	"github.com/urfave/cli/v2"
)

var initiate = cli.Command{
	Name:  "initiate",
	Usage: "open a new swap escrowing funds behind a hashlock",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "participant",
			Usage:    "the identity allowed to withdraw with the preimage",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the asset to escrow",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to escrow",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "hashlock",
			Usage:    "hex encoded sha256 hash of the secret preimage",
			Required: true,
		},
		&cli.UintFlag{
			Name:     "timelock",
			Usage:    "the ledger sequence after which the swap is refundable",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "eth-destination",
			Usage: "the ethereum address expected to receive the counter funds",
		},
		&cli.StringFlag{
			Name:  "eth-amount",
			Usage: "the amount expected on the ethereum side",
		},
		&cli.StringFlag{
			Name:  "eth-token",
			Usage: "the ethereum token contract of the counter funds",
		},
	},
	Action: initiateAction,
}

func initiateAction(ctx *cli.Context) error {
	body, err := json.Marshal(map[string]interface{}{
		"participant":          ctx.String("participant"),
		"asset":                ctx.String("asset"),
		"amount":               ctx.String("amount"),
		"hashlock":             ctx.String("hashlock"),
		"timelock":             ctx.Uint("timelock"),
		"ethereum_destination": ctx.String("eth-destination"),
		"ethereum_amount":      ctx.String("eth-amount"),
		"ethereum_token":       ctx.String("eth-token"),
	})
	if err != nil {
		return err
	}

	resp, err := request(http.MethodPost, "/v1/swaps", body)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
