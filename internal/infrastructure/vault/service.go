package vault

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"
)

const (
	accountsDir = "vault"

	// CustodyAccount is the internal identity holding funds locked by open
	// swaps. It is not a valid caller identity, so no request can ever be
	// authenticated as the custody account itself.
	CustodyAccount = "custody"
)

type balance struct {
	Owner  string
	Asset  string
	Amount decimal.Decimal
}

func balanceKey(owner, asset string) string {
	return fmt.Sprintf("%s:%s", owner, asset)
}

type service struct {
	db *badgerhold.Store
}

// NewService returns an AssetVault backed by a persistent account book.
// An empty baseDbDir keeps the book in memory only.
func NewService(baseDbDir string, logger badger.Logger) (ports.AssetVault, error) {
	var dir string
	if len(baseDbDir) > 0 {
		dir = filepath.Join(baseDbDir, accountsDir)
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = logger
	if len(dir) <= 0 {
		opts.InMemory = true
	}
	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, fmt.Errorf("opening account book: %w", err)
	}
	return &service{db}, nil
}

func (s *service) Transfer(
	_ context.Context, from, to, asset string, amount decimal.Decimal,
) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}

	// Debit and credit commit in a single transaction so the book never
	// observes a half-applied transfer.
	return s.db.Badger().Update(func(txn *badger.Txn) error {
		source, err := s.getBalance(txn, from, asset)
		if err != nil {
			return err
		}
		if source.Amount.LessThan(amount) {
			return ports.ErrInsufficientBalance
		}
		dest, err := s.getBalance(txn, to, asset)
		if err != nil {
			return err
		}

		source.Amount = source.Amount.Sub(amount)
		dest.Amount = dest.Amount.Add(amount)

		if err := s.putBalance(txn, source); err != nil {
			return err
		}
		return s.putBalance(txn, dest)
	})
}

func (s *service) Balance(
	_ context.Context, owner, asset string,
) (decimal.Decimal, error) {
	var b balance
	if err := s.db.Get(balanceKey(owner, asset), &b); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return b.Amount, nil
}

func (s *service) Deposit(
	_ context.Context, owner, asset string, amount decimal.Decimal,
) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("deposit amount must be positive")
	}

	return s.db.Badger().Update(func(txn *badger.Txn) error {
		b, err := s.getBalance(txn, owner, asset)
		if err != nil {
			return err
		}
		b.Amount = b.Amount.Add(amount)
		return s.putBalance(txn, b)
	})
}

func (s *service) CustodyAccount() string {
	return CustodyAccount
}

func (s *service) Close() {
	//nolint
	s.db.Close()
}

func (s *service) getBalance(
	txn *badger.Txn, owner, asset string,
) (*balance, error) {
	b := balance{Owner: owner, Asset: asset, Amount: decimal.Zero}
	err := s.db.TxGet(txn, balanceKey(owner, asset), &b)
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return nil, err
	}
	return &b, nil
}

func (s *service) putBalance(txn *badger.Txn, b *balance) error {
	return s.db.TxUpsert(txn, balanceKey(b.Owner, b.Asset), *b)
}
