package inmemory

import (
	"sync"

	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
)

type swapLedgerStore struct {
	locker *sync.Mutex
	swaps  map[string]*domain.Swap
	nonces map[string]uint64
}

// DbManager holds the in-memory key space of the swap ledger. Record TTLs
// are accepted and ignored, volatile storage never outlives them anyway.
type DbManager struct {
	store     *swapLedgerStore
	swapRepo  domain.SwapRepository
	nonceRepo domain.NonceRepository
}

// NewRepoManager returns a RepoManager backed by volatile storage, meant for
// tests and development.
func NewRepoManager() ports.RepoManager {
	store := &swapLedgerStore{
		locker: &sync.Mutex{},
		swaps:  map[string]*domain.Swap{},
		nonces: map[string]uint64{},
	}

	return &DbManager{
		store:     store,
		swapRepo:  newSwapRepositoryImpl(store),
		nonceRepo: newNonceRepositoryImpl(store),
	}
}

func (d *DbManager) SwapRepository() domain.SwapRepository {
	return d.swapRepo
}

func (d *DbManager) NonceRepository() domain.NonceRepository {
	return d.nonceRepo
}

func (d *DbManager) Close() {}
