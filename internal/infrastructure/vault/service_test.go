package vault_test

import (
	"context"
	"testing"

	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/hashlock-network/swapd/internal/infrastructure/vault"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"
	asset = "XLM"
)

func TestVault(t *testing.T) {
	v, err := vault.NewService(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(v.Close)

	ctx := context.Background()

	// A never-seen account owns nothing.
	b, err := v.Balance(ctx, alice, asset)
	require.NoError(t, err)
	require.True(t, b.IsZero())

	err = v.Deposit(ctx, alice, asset, decimal.NewFromInt(1000))
	require.NoError(t, err)

	err = v.Transfer(ctx, alice, bob, asset, decimal.NewFromInt(300))
	require.NoError(t, err)

	aliceBalance, err := v.Balance(ctx, alice, asset)
	require.NoError(t, err)
	require.True(t, aliceBalance.Equal(decimal.NewFromInt(700)))

	bobBalance, err := v.Balance(ctx, bob, asset)
	require.NoError(t, err)
	require.True(t, bobBalance.Equal(decimal.NewFromInt(300)))

	// Balances are tracked per asset.
	other, err := v.Balance(ctx, alice, "USDC")
	require.NoError(t, err)
	require.True(t, other.IsZero())
}

func TestFailingTransfer(t *testing.T) {
	v, err := vault.NewService("", nil)
	require.NoError(t, err)
	t.Cleanup(v.Close)

	ctx := context.Background()
	err = v.Deposit(ctx, alice, asset, decimal.NewFromInt(100))
	require.NoError(t, err)

	tests := []struct {
		name   string
		from   string
		amount decimal.Decimal
		err    error
	}{
		{"insufficient balance", alice, decimal.NewFromInt(101), ports.ErrInsufficientBalance},
		{"empty account", bob, decimal.NewFromInt(1), ports.ErrInsufficientBalance},
		{"zero amount", alice, decimal.Zero, nil},
		{"negative amount", alice, decimal.NewFromInt(-1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Transfer(ctx, tt.from, v.CustodyAccount(), asset, tt.amount)
			require.Error(t, err)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			}

			// A failed transfer leaves both sides untouched.
			b, err := v.Balance(ctx, alice, asset)
			require.NoError(t, err)
			require.True(t, b.Equal(decimal.NewFromInt(100)))

			c, err := v.Balance(ctx, v.CustodyAccount(), asset)
			require.NoError(t, err)
			require.True(t, c.IsZero())
		})
	}
}

func TestFailingDeposit(t *testing.T) {
	v, err := vault.NewService("", nil)
	require.NoError(t, err)
	t.Cleanup(v.Close)

	ctx := context.Background()
	err = v.Deposit(ctx, alice, asset, decimal.Zero)
	require.Error(t, err)

	err = v.Deposit(ctx, alice, asset, decimal.NewFromInt(-10))
	require.Error(t, err)
}
