package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	swapDataDir = btcutil.AppDataDir("swap-operator", false)
	statePath   = path.Join(swapDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "swap operator CLI"
	app.Usage = "Command line interface for swapd daemon operators"
	app.Commands = append(
		app.Commands,
		&config,
		&genkey,
		&genpreimage,
		&deposit,
		&balance,
		&initiate,
		&withdraw,
		&refund,
		&getswap,
		&listswaps,
		&addwebhook,
		&removewebhook,
		&listwebhooks,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	//nolint
	json.Unmarshal(file, &data)

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(swapDataDir); os.IsNotExist(err) {
		//nolint
		os.Mkdir(swapDataDir, os.ModeDir|0755)
	}

	currentData := map[string]string{}
	if file, err := os.ReadFile(statePath); err == nil {
		//nolint
		json.Unmarshal(file, &currentData)
	}
	for key, value := range data {
		currentData[key] = value
	}

	buf, err := json.Marshal(currentData)
	if err != nil {
		return err
	}
	return os.WriteFile(statePath, buf, 0644)
}

func printRespJSON(resp []byte) {
	var out map[string]interface{}
	if err := json.Unmarshal(resp, &out); err != nil {
		var outList []interface{}
		if err := json.Unmarshal(resp, &outList); err != nil {
			fmt.Println(string(resp))
			return
		}
		buf, _ := json.MarshalIndent(outList, "", "\t")
		fmt.Println(string(buf))
		return
	}
	buf, _ := json.MarshalIndent(out, "", "\t")
	fmt.Println(string(buf))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[swap] %v\n", err)
	os.Exit(1)
}
