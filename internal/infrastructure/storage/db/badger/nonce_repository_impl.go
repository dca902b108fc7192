package dbbadger

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v3"

	"github.com/hashlock-network/swapd/internal/core/domain"
)

var nonceKeyPrefix = []byte("nonces:")

type nonceRepositoryImpl struct {
	db *badger.DB
}

func newNonceRepositoryImpl(db *badger.DB) domain.NonceRepository {
	return nonceRepositoryImpl{db}
}

// NextNonce reads and increments the counter of the identity within a single
// badger transaction, making the read-increment-write atomic.
func (r nonceRepositoryImpl) NextNonce(
	_ context.Context, identity string,
) (uint64, error) {
	var nonce uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		key := nonceKey(identity)

		item, err := txn.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			buf, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			nonce = binary.BigEndian.Uint64(buf)
		}

		next := make([]byte, 8)
		binary.BigEndian.PutUint64(next, nonce+1)
		return txn.Set(key, next)
	})
	if err != nil {
		return 0, err
	}
	return nonce, nil
}

func (r nonceRepositoryImpl) Close() {}

func nonceKey(identity string) []byte {
	return append(nonceKeyPrefix, []byte(identity)...)
}
