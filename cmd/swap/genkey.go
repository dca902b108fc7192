package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/urfave/cli/v2"
)

var genkey = cli.Command{
	Name:   "genkey",
	Usage:  "generate a signing key and store it in the local state",
	Action: genKeyAction,
}

func genKeyAction(ctx *cli.Context) error {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}

	if err := setState(map[string]string{
		"privatekey": hex.EncodeToString(privKey.Serialize()),
	}); err != nil {
		return err
	}

	fmt.Println("identity:", hex.EncodeToString(privKey.PubKey().SerializeCompressed()))
	return nil
}
