package inmemory

import (
	"context"

	"github.com/hashlock-network/swapd/internal/core/domain"
)

type nonceRepositoryImpl struct {
	store *swapLedgerStore
}

// newNonceRepositoryImpl returns a new in-memory NonceRepository
// implementation.
func newNonceRepositoryImpl(store *swapLedgerStore) domain.NonceRepository {
	return &nonceRepositoryImpl{store}
}

func (r nonceRepositoryImpl) NextNonce(
	_ context.Context, identity string,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	nonce := r.store.nonces[identity]
	r.store.nonces[identity] = nonce + 1
	return nonce, nil
}

func (r nonceRepositoryImpl) Close() {}
