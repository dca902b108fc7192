package auth_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/infrastructure/auth"
	"github.com/stretchr/testify/require"
)

func TestCaller(t *testing.T) {
	t.Parallel()

	authenticator := auth.NewService()

	_, err := authenticator.Caller(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	ctx := auth.WithCaller(context.Background(), "alice")
	caller, err := authenticator.Caller(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", caller)

	require.NoError(t, authenticator.RequireAuth(ctx, "alice"))
	require.ErrorIs(
		t, authenticator.RequireAuth(ctx, "bob"), domain.ErrUnauthorized,
	)
	require.ErrorIs(
		t,
		authenticator.RequireAuth(context.Background(), "alice"),
		domain.ErrUnauthorized,
	)
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	identity := hex.EncodeToString(privKey.PubKey().SerializeCompressed())

	payload := []byte(`{"hashlock":"aabb","amount":"100"}`)
	sigHex := auth.SignPayload(privKey, payload)

	err = auth.VerifySignature(identity, sigHex, payload)
	require.NoError(t, err)
}

func TestFailingVerifySignature(t *testing.T) {
	t.Parallel()

	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	identity := hex.EncodeToString(privKey.PubKey().SerializeCompressed())

	otherKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	payload := []byte(`{"hashlock":"aabb","amount":"100"}`)
	sigHex := auth.SignPayload(privKey, payload)

	tests := []struct {
		name     string
		identity string
		sig      string
		payload  []byte
	}{
		{"malformed identity", "not-hex", sigHex, payload},
		{"truncated identity", identity[:10], sigHex, payload},
		{"malformed signature", identity, "zzzz", payload},
		{"wrong key", hex.EncodeToString(otherKey.PubKey().SerializeCompressed()), sigHex, payload},
		{"tampered payload", identity, sigHex, []byte(`{"hashlock":"aabb","amount":"999"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.VerifySignature(tt.identity, tt.sig, tt.payload)
			require.Error(t, err)
		})
	}
}
