package inmemory

import (
	"context"
	"time"

	"github.com/hashlock-network/swapd/internal/core/domain"
)

type swapRepositoryImpl struct {
	store *swapLedgerStore
}

// newSwapRepositoryImpl returns a new in-memory SwapRepository
// implementation.
func newSwapRepositoryImpl(store *swapLedgerStore) domain.SwapRepository {
	return &swapRepositoryImpl{store}
}

func (r swapRepositoryImpl) AddSwap(
	_ context.Context, swap *domain.Swap, _ time.Duration,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.swaps[swap.Id]; ok {
		return domain.ErrSwapAlreadyExists
	}

	cloned := *swap
	r.store.swaps[swap.Id] = &cloned
	return nil
}

func (r swapRepositoryImpl) GetSwap(
	_ context.Context, swapId string,
) (*domain.Swap, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	swap, ok := r.store.swaps[swapId]
	if !ok {
		return nil, domain.ErrSwapNotFound
	}

	cloned := *swap
	return &cloned, nil
}

func (r swapRepositoryImpl) GetAllSwaps(
	_ context.Context,
) ([]*domain.Swap, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	swaps := make([]*domain.Swap, 0, len(r.store.swaps))
	for _, swap := range r.store.swaps {
		cloned := *swap
		swaps = append(swaps, &cloned)
	}
	return swaps, nil
}

func (r swapRepositoryImpl) UpdateSwap(
	_ context.Context, swapId string,
	updateFn func(s *domain.Swap) (*domain.Swap, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	swap, ok := r.store.swaps[swapId]
	if !ok {
		return domain.ErrSwapNotFound
	}

	cloned := *swap
	updated, err := updateFn(&cloned)
	if err != nil {
		return err
	}

	r.store.swaps[swapId] = updated
	return nil
}

func (r swapRepositoryImpl) DeleteSwap(_ context.Context, swapId string) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.swaps[swapId]; !ok {
		return domain.ErrSwapNotFound
	}

	delete(r.store.swaps, swapId)
	return nil
}

func (r swapRepositoryImpl) Close() {}
