package ports

import "github.com/hashlock-network/swapd/internal/core/domain"

// RepoManager gives access to the repositories sharing the persistent key
// space of the swap ledger.
type RepoManager interface {
	SwapRepository() domain.SwapRepository
	NonceRepository() domain.NonceRepository
	Close()
}
