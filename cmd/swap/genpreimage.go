package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var genpreimage = cli.Command{
	Name:   "genpreimage",
	Usage:  "generate a random preimage and its hashlock",
	Action: genPreimageAction,
}

func genPreimageAction(ctx *cli.Context) error {
	preimage := make([]byte, domain.PreimageSize)
	if _, err := rand.Read(preimage); err != nil {
		return err
	}

	fmt.Println("preimage:", hex.EncodeToString(preimage))
	fmt.Println("hashlock:", hex.EncodeToString(domain.HashPreimage(preimage)))
	return nil
}
