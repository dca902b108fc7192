package dbbadger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/hashlock-network/swapd/internal/core/domain"
)

var swapKeyPrefix = []byte("swaps:")

type swapRepositoryImpl struct {
	db *badger.DB
}

func newSwapRepositoryImpl(db *badger.DB) domain.SwapRepository {
	return swapRepositoryImpl{db}
}

func (r swapRepositoryImpl) AddSwap(
	_ context.Context, swap *domain.Swap, ttl time.Duration,
) error {
	key := swapKey(swap.Id)
	buf, err := JSONEncode(swap)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		// Absence-before-insert, a reused hashlock must never overwrite an
		// existing order.
		if _, err := txn.Get(key); err == nil {
			return domain.ErrSwapAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		entry := badger.NewEntry(key, buf).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

func (r swapRepositoryImpl) GetSwap(
	_ context.Context, swapId string,
) (*domain.Swap, error) {
	var swap *domain.Swap
	err := r.db.View(func(txn *badger.Txn) error {
		s, err := getSwap(txn, swapId)
		if err != nil {
			return err
		}
		swap = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swap, nil
}

func (r swapRepositoryImpl) GetAllSwaps(_ context.Context) ([]*domain.Swap, error) {
	swaps := make([]*domain.Swap, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = swapKeyPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			buf, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			swap := &domain.Swap{}
			if err := JSONDecode(buf, swap); err != nil {
				return err
			}
			swaps = append(swaps, swap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (r swapRepositoryImpl) UpdateSwap(
	_ context.Context, swapId string,
	updateFn func(s *domain.Swap) (*domain.Swap, error),
) error {
	return r.db.Update(func(txn *badger.Txn) error {
		swap, err := getSwap(txn, swapId)
		if err != nil {
			return err
		}

		item, err := txn.Get(swapKey(swapId))
		if err != nil {
			return err
		}
		ttl := remainingTTL(item)

		updated, err := updateFn(swap)
		if err != nil {
			return err
		}

		buf, err := JSONEncode(updated)
		if err != nil {
			return err
		}

		entry := badger.NewEntry(swapKey(swapId), buf)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (r swapRepositoryImpl) DeleteSwap(_ context.Context, swapId string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := getSwap(txn, swapId); err != nil {
			return err
		}
		return txn.Delete(swapKey(swapId))
	})
}

func (r swapRepositoryImpl) Close() {}

func getSwap(txn *badger.Txn, swapId string) (*domain.Swap, error) {
	item, err := txn.Get(swapKey(swapId))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}

	buf, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	swap := &domain.Swap{}
	if err := JSONDecode(buf, swap); err != nil {
		return nil, err
	}
	return swap, nil
}

// remainingTTL preserves the retention of a record when rewriting it. A
// record without expiry keeps none.
func remainingTTL(item *badger.Item) time.Duration {
	expiresAt := item.ExpiresAt()
	if expiresAt == 0 {
		return 0
	}
	ttl := time.Until(time.Unix(int64(expiresAt), 0))
	if ttl < 0 {
		return time.Second
	}
	return ttl
}

func swapKey(swapId string) []byte {
	return append(swapKeyPrefix, []byte(swapId)...)
}
