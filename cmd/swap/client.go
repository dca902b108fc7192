package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/hashlock-network/swapd/internal/infrastructure/auth"
)

const (
	identityHeader  = "X-Auth-Identity"
	signatureHeader = "X-Auth-Signature"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

func getBaseURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	addr, ok := state["rpcserver"]
	if !ok {
		return "", errors.New("set daemon address with `config set rpcserver`")
	}
	return fmt.Sprintf("http://%s", addr), nil
}

func getSigningKey() (*btcec.PrivateKey, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	keyHex, ok := state["privatekey"]
	if !ok {
		return nil, errors.New("set signing key with `config set privatekey` or run 'genkey'")
	}
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %s", err)
	}
	privKey, _ := btcec.PrivKeyFromBytes(keyBytes)
	return privKey, nil
}

func getIdentity() (string, error) {
	privKey, err := getSigningKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(privKey.PubKey().SerializeCompressed()), nil
}

// request performs a call against the daemon, signing mutating requests
// with the configured key the same way the daemon verifies them.
func request(method, path string, body []byte) ([]byte, error) {
	baseURL, err := getBaseURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if method != http.MethodGet {
		privKey, err := getSigningKey()
		if err != nil {
			return nil, err
		}
		payload := []byte(fmt.Sprintf("%s %s\n", method, path))
		payload = append(payload, body...)

		req.Header.Set(
			identityHeader,
			hex.EncodeToString(privKey.PubKey().SerializeCompressed()),
		)
		req.Header.Set(signatureHeader, auth.SignPayload(privKey, payload))
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("daemon replied %d: %s", res.StatusCode, resBody)
	}
	return resBody, nil
}
