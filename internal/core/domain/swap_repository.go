package domain

import (
	"context"
	"time"
)

// SwapRepository is the abstraction for any kind of database intended to
// persist swap records. Implementations must guarantee that AddSwap is
// atomic with respect to the existence check and that UpdateSwap commits the
// whole record or nothing.
type SwapRepository interface {
	// AddSwap persists a new swap with the given retention period and fails
	// with ErrSwapAlreadyExists if a record for the same id is present.
	AddSwap(ctx context.Context, swap *Swap, ttl time.Duration) error
	// GetSwap returns the swap with the given id, or ErrSwapNotFound.
	GetSwap(ctx context.Context, swapId string) (*Swap, error)
	// GetAllSwaps returns all the swaps stored in the repository.
	GetAllSwaps(ctx context.Context) ([]*Swap, error)
	// UpdateSwap allows to commit changes to a swap in a transactional way.
	UpdateSwap(
		ctx context.Context, swapId string,
		updateFn func(s *Swap) (*Swap, error),
	) error
	// DeleteSwap removes a swap record. The state machine uses it only to
	// roll back a creation whose escrow transfer failed.
	DeleteSwap(ctx context.Context, swapId string) error
	Close()
}
