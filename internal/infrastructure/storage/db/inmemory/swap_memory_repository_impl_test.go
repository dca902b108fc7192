package inmemory_test

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/infrastructure/storage/db/inmemory"
)

func TestSwapRepository(t *testing.T) {
	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	swapRepo := repoManager.SwapRepository()

	swap := newTestSwap(t)

	_, err := swapRepo.GetSwap(ctx, swap.Id)
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())

	err = swapRepo.AddSwap(ctx, swap, time.Hour)
	require.NoError(t, err)

	// No silent overwrites for the same hashlock.
	err = swapRepo.AddSwap(ctx, swap, time.Hour)
	require.EqualError(t, err, domain.ErrSwapAlreadyExists.Error())

	found, err := swapRepo.GetSwap(ctx, swap.Id)
	require.NoError(t, err)
	require.Equal(t, swap.Id, found.Id)
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

	all, err := swapRepo.GetAllSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	err = swapRepo.DeleteSwap(ctx, swap.Id)
	require.NoError(t, err)

	_, err = swapRepo.GetSwap(ctx, swap.Id)
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())
}

func TestNonceRepository(t *testing.T) {
	ctx := context.Background()
	nonceRepo := inmemory.NewRepoManager().NonceRepository()

	for i := 0; i < 3; i++ {
		nonce, err := nonceRepo.NextNonce(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, uint64(i), nonce)
	}

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
		"", "", "",
	)
	require.NoError(t, err)
	return swap
}
