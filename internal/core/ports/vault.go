package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientBalance is returned by Transfer when the source account
	// does not own enough of the asset.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// AssetVault is the host's native asset-transfer capability. A transfer
// either moves the whole amount or fails without side effects.
type AssetVault interface {
	// Transfer moves amount of asset between two identities.
	Transfer(ctx context.Context, from, to, asset string, amount decimal.Decimal) error
	// Balance returns how much of asset the owner holds.
	Balance(ctx context.Context, owner, asset string) (decimal.Decimal, error)
	// Deposit credits an inbound amount of asset to the owner.
	Deposit(ctx context.Context, owner, asset string, amount decimal.Decimal) error
	// CustodyAccount returns the identity holding escrowed funds.
	CustodyAccount() string
	Close()
}
