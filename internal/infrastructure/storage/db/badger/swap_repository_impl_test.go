package dbbadger_test

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hashlock-network/swapd/internal/core/domain"
	dbbadger "github.com/hashlock-network/swapd/internal/infrastructure/storage/db/badger"
)

func TestSwapRepository(t *testing.T) {
	ctx := context.Background()
	repoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	swapRepo := repoManager.SwapRepository()
	swap := newTestSwap(t)

	_, err = swapRepo.GetSwap(ctx, swap.Id)
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())

	err = swapRepo.AddSwap(ctx, swap, time.Hour)
	require.NoError(t, err)

	err = swapRepo.AddSwap(ctx, swap, time.Hour)
	require.EqualError(t, err, domain.ErrSwapAlreadyExists.Error())

	found, err := swapRepo.GetSwap(ctx, swap.Id)
	require.NoError(t, err)
	require.Equal(t, swap.Id, found.Id)
	require.Equal(t, swap.Initiator, found.Initiator)
	require.Equal(t, swap.Hashlock, found.Hashlock)
	require.True(t, swap.Amount.Equal(found.Amount))
	require.False(t, found.IsSettled())

	err = swapRepo.UpdateSwap(ctx, swap.Id,
		func(s *domain.Swap) (*domain.Swap, error) {
			if err := s.Refund(s.Timelock); err != nil {
				return nil, err
			}
			return s, nil
		},
	)
	require.NoError(t, err)

	found, err = swapRepo.GetSwap(ctx, swap.Id)
	require.NoError(t, err)
	require.True(t, found.Refunded)
	require.False(t, found.Withdrawn)

	all, err := swapRepo.GetAllSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	err = swapRepo.DeleteSwap(ctx, swap.Id)
	require.NoError(t, err)

	_, err = swapRepo.GetSwap(ctx, swap.Id)
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())
}

func TestSwapRecordExpiry(t *testing.T) {
	ctx := context.Background()
	repoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	swapRepo := repoManager.SwapRepository()
	swap := newTestSwap(t)

	err = swapRepo.AddSwap(ctx, swap, time.Second)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = swapRepo.GetSwap(ctx, swap.Id)
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())
}

func TestNonceRepository(t *testing.T) {
	ctx := context.Background()
	repoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	nonceRepo := repoManager.NonceRepository()

	for i := 0; i < 5; i++ {
		nonce, err := nonceRepo.NextNonce(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, uint64(i), nonce)
	}

	// Counters are per identity.
	nonce, err := nonceRepo.NextNonce(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, nonce)
}

func newTestSwap(t *testing.T) *domain.Swap {
	t.Helper()

	preimage := make([]byte, domain.PreimageSize)
	_, err := rand.Read(preimage)
	require.NoError(t, err)

	swap, err := domain.NewSwap(
		"initiator", "participant", "XLM",
		decimal.NewFromInt(100), domain.HashPreimage(preimage), 1200, 1000,
		"0xdest", "0.5", "0xtoken",
	)
	require.NoError(t, err)
	return swap
}
