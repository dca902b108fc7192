package httpinterface

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/gorilla/websocket"
	"github.com/hashlock-network/swapd/internal/core/application"
	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/hashlock-network/swapd/internal/infrastructure/auth"
	"github.com/hashlock-network/swapd/internal/infrastructure/pubsub"
	"github.com/hashlock-network/swapd/internal/infrastructure/storage/db/inmemory"
	"github.com/hashlock-network/swapd/internal/infrastructure/vault"
	"github.com/stretchr/testify/require"
)

const currentSequence = 1000

type stubLedgerClock struct {
	sequence uint32
}

func (c *stubLedgerClock) CurrentSequence(_ context.Context) (uint32, error) {
	return c.sequence, nil
}
func (c *stubLedgerClock) Close() {}

type apiClient struct {
	t       *testing.T
	baseURL string
	privKey *btcec.PrivateKey
}

func newAPIClient(t *testing.T, baseURL string) *apiClient {
	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return &apiClient{t, baseURL, privKey}
}

func (c *apiClient) identity() string {
	return hex.EncodeToString(c.privKey.PubKey().SerializeCompressed())
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, []byte) {
	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(c.t, err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(buf))
	require.NoError(c.t, err)

	if method != http.MethodGet {
		payload := signedPayload(method, path, buf)
		req.Header.Set(identityHeader, c.identity())
		req.Header.Set(signatureHeader, auth.SignPayload(c.privKey, payload))
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	var resBody bytes.Buffer
	_, err = resBody.ReadFrom(res.Body)
	require.NoError(c.t, err)
	return res, resBody.Bytes()
}

func newTestServer(t *testing.T) *httptest.Server {
	repoManager := inmemory.NewRepoManager()
	assetVault, err := vault.NewService("", nil)
	require.NoError(t, err)
	pubsubSvc, err := pubsub.NewService("", nil)
	require.NoError(t, err)

	authenticator := auth.NewService()
	eventHub := NewEventHub()
	swapSvc := application.NewSwapService(
		repoManager,
		assetVault,
		&stubLedgerClock{sequence: currentSequence},
		authenticator,
		pubsubSvc, eventHub,
	)

	router := newRouter(ServiceOpts{
		Addr:     "localhost:0",
		SwapSvc:  swapSvc,
		Vault:    assetVault,
		PubSub:   pubsubSvc,
		Auth:     authenticator,
		EventHub: eventHub,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		eventHub.Close()
		pubsubSvc.Close()
		assetVault.Close()
		repoManager.Close()
	})
	return server
}

func TestSwapLifecycle(t *testing.T) {
	server := newTestServer(t)
	initiator := newAPIClient(t, server.URL)
	participant := newAPIClient(t, server.URL)

	res, body := initiator.do(http.MethodPost, "/v1/deposits", map[string]string{
		"asset": "XLM", "amount": "1000",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	// Stream events while driving the swap through its lifecycle.
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		conn.Close()
	})
	// Give the hub time to register the client.
	time.Sleep(100 * time.Millisecond)

	preimage := make([]byte, domain.PreimageSize)
	_, err = rand.Read(preimage)
	require.NoError(t, err)
	hashlock := domain.HashPreimage(preimage)

	res, body = initiator.do(http.MethodPost, "/v1/swaps", map[string]interface{}{
		"participant": participant.identity(),
		"asset":       "XLM",
		"amount":      "100",
		"hashlock":    hex.EncodeToString(hashlock),
		"timelock":    currentSequence + 200,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	var initiated map[string]string
	require.NoError(t, json.Unmarshal(body, &initiated))
	swapId := initiated["id"]
	require.Equal(t, hex.EncodeToString(hashlock), swapId)

	res, body = initiator.do(http.MethodGet, "/v1/swaps/"+swapId, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var got swapResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "open", got.Status)
	require.Equal(t, initiator.identity(), got.Initiator)

	res, body = initiator.do(http.MethodGet, "/v1/swaps", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var list []swapResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	res, body = participant.do(
		http.MethodPost, "/v1/swaps/"+swapId+"/withdraw",
		map[string]string{"preimage": hex.EncodeToString(preimage)},
	)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "withdrawn", got.Status)

	res, body = participant.do(
		http.MethodGet,
		"/v1/balances/"+participant.identity()+"?asset=XLM", nil,
	)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var balance balanceResponse
	require.NoError(t, json.Unmarshal(body, &balance))
	require.Equal(t, "100", balance.Balance)

	// Both lifecycle transitions must have been streamed.
	topics := make([]string, 0, 2)
	for len(topics) < 2 {
		//nolint
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var envelope eventEnvelope
		err := conn.ReadJSON(&envelope)
		require.NoError(t, err)
		topics = append(topics, envelope.Topic)
	}
	require.Equal(
		t, []string{ports.SwapInitiatedTopic, ports.WithdrawnTopic}, topics,
	)
}

func TestFailingAuth(t *testing.T) {
	server := newTestServer(t)
	client := newAPIClient(t, server.URL)

	body := []byte(`{"asset":"XLM","amount":"10"}`)

	// No identity at all.
	res, err := http.Post(
		server.URL+"/v1/deposits", "application/json", bytes.NewReader(body),
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	//nolint
	res.Body.Close()

	// Identity without signature.
	req, err := http.NewRequest(
		http.MethodPost, server.URL+"/v1/deposits", bytes.NewReader(body),
	)
	require.NoError(t, err)
	req.Header.Set(identityHeader, client.identity())
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	//nolint
	res.Body.Close()

	// Signature made over a different body.
	req, err = http.NewRequest(
		http.MethodPost, server.URL+"/v1/deposits", bytes.NewReader(body),
	)
	require.NoError(t, err)
	tampered := signedPayload(
		http.MethodPost, "/v1/deposits", []byte(`{"asset":"XLM","amount":"9999"}`),
	)
	req.Header.Set(identityHeader, client.identity())
	req.Header.Set(signatureHeader, auth.SignPayload(client.privKey, tampered))
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	//nolint
	res.Body.Close()
}

func TestErrorStatusMapping(t *testing.T) {
	server := newTestServer(t)
	initiator := newAPIClient(t, server.URL)
	participant := newAPIClient(t, server.URL)

	res, body := initiator.do(http.MethodPost, "/v1/deposits", map[string]string{
		"asset": "XLM", "amount": "1000",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	unknownId := strings.Repeat("00", 32)
	res, _ = initiator.do(http.MethodGet, "/v1/swaps/"+unknownId, nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	// Timelock below the minimum delta.
	res, _ = initiator.do(http.MethodPost, "/v1/swaps", map[string]interface{}{
		"participant": participant.identity(),
		"asset":       "XLM",
		"amount":      "100",
		"hashlock":    strings.Repeat("11", 32),
		"timelock":    currentSequence + 1,
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Not enough escrowed funds.
	res, _ = initiator.do(http.MethodPost, "/v1/swaps", map[string]interface{}{
		"participant": participant.identity(),
		"asset":       "XLM",
		"amount":      "5000",
		"hashlock":    strings.Repeat("22", 32),
		"timelock":    currentSequence + 200,
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	// Open the swap for real, then hit the role and preimage guards.
	res, body = initiator.do(http.MethodPost, "/v1/swaps", map[string]interface{}{
		"participant": participant.identity(),
		"asset":       "XLM",
		"amount":      "100",
		"hashlock":    strings.Repeat("33", 32),
		"timelock":    currentSequence + 200,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	swapId := strings.Repeat("33", 32)

	res, _ = initiator.do(
		http.MethodPost, "/v1/swaps/"+swapId+"/withdraw",
		map[string]string{"preimage": strings.Repeat("44", 32)},
	)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = participant.do(
		http.MethodPost, "/v1/swaps/"+swapId+"/refund", nil,
	)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = initiator.do(
		http.MethodPost, "/v1/swaps/"+swapId+"/refund", nil,
	)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestSubscriptions(t *testing.T) {
	server := newTestServer(t)
	client := newAPIClient(t, server.URL)

	res, body := client.do(http.MethodPost, "/v1/subscriptions", map[string]string{
		"topic":    ports.WithdrawnTopic,
		"endpoint": "http://localhost:9999/hook",
		"secret":   "supersecret",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	var created subscribeResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.Id)

	res, body = client.do(
		http.MethodGet, "/v1/subscriptions?topic="+ports.WithdrawnTopic, nil,
	)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var subs []subscriptionResponse
	require.NoError(t, json.Unmarshal(body, &subs))
	require.Len(t, subs, 1)
	require.True(t, subs[0].Secured)

	res, _ = client.do(http.MethodPost, "/v1/subscriptions", map[string]string{
		"topic":    "unknown_topic",
		"endpoint": "http://localhost:9999/hook",
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = client.do(
		http.MethodGet, "/v1/subscriptions/"+created.Id, nil,
	)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var sub subscriptionResponse
	require.NoError(t, json.Unmarshal(body, &sub))
	require.Equal(t, created.Id, sub.Id)
	require.Equal(t, ports.WithdrawnTopic, sub.Topic)

	res, _ = client.do(
		http.MethodDelete, "/v1/subscriptions/"+created.Id, nil,
	)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = client.do(
		http.MethodGet, "/v1/subscriptions/"+created.Id, nil,
	)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = client.do(
		http.MethodGet, "/v1/subscriptions?topic="+ports.WithdrawnTopic, nil,
	)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	subs = nil
	require.NoError(t, json.Unmarshal(body, &subs))
	require.Len(t, subs, 0)
}
