package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// HashlockSize is the size in bytes of a sha256 preimage hash.
	HashlockSize = 32
	// PreimageSize is the size in bytes of a swap secret.
	PreimageSize = 32

	// MinTimelockDelta is the minimum distance between the current ledger
	// sequence and a swap timelock, roughly 10 minutes of ledger closes.
	MinTimelockDelta uint32 = 120
	// MaxTimelockDelta bounds how long funds can stay locked, one day of
	// ledger closes.
	MaxTimelockDelta uint32 = 17280
	// TTLGraceLedgers is the number of ledgers a swap record outlives its
	// timelock before storage may reclaim it.
	TTLGraceLedgers uint32 = 1000
	// LedgerCloseInterval is the average time between two ledger closes.
	LedgerCloseInterval = 5 * time.Second
)

// SwapStatus represents the different statuses that a swap can assume.
type SwapStatus int

const (
	SwapStatusOpen SwapStatus = iota
	SwapStatusWithdrawn
	SwapStatusRefunded
)

func (s SwapStatus) String() string {
	switch s {
	case SwapStatusOpen:
		return "open"
	case SwapStatusWithdrawn:
		return "withdrawn"
	case SwapStatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Swap is the data structure representing an HTLC swap order. Funds escrowed
// for the swap are released to the participant by disclosing the preimage of
// the hashlock before the timelock sequence, or returned to the initiator
// once the timelock has passed. Both outcomes are terminal.
type Swap struct {
	Id                  string
	Initiator           string
	Participant         string
	Asset               string
	Amount              decimal.Decimal
	Hashlock            []byte
	Timelock            uint32
	Withdrawn           bool
	Refunded            bool
	EthereumDestination string
	EthereumAmount      string
	EthereumToken       string
	CreatedAt           int64
	SettledAt           int64
}

// NewSwap returns an open swap after validating all the creation
// preconditions against the current ledger sequence. The swap id is the hex
// encoded hashlock, which makes the hashlock the uniqueness domain of the
// whole registry.
func NewSwap(
	initiator, participant, asset string,
	amount decimal.Decimal, hashlock []byte, timelock, currentSequence uint32,
	ethDestination, ethAmount, ethToken string,
) (*Swap, error) {
	if len(hashlock) != HashlockSize {
		return nil, ErrInvalidHashlock
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if timelock <= currentSequence+MinTimelockDelta {
		return nil, ErrTimelockTooShort
	}
	if timelock >= currentSequence+MaxTimelockDelta {
		return nil, ErrTimelockTooLong
	}

	return &Swap{
		Id:                  hex.EncodeToString(hashlock),
		Initiator:           initiator,
		Participant:         participant,
		Asset:               asset,
		Amount:              amount,
		Hashlock:            hashlock,
		Timelock:            timelock,
		EthereumDestination: ethDestination,
		EthereumAmount:      ethAmount,
		EthereumToken:       ethToken,
		CreatedAt:           time.Now().Unix(),
	}, nil
}

// Withdraw brings an open swap to the Withdrawn status if the given preimage
// matches the hashlock and the timelock has not passed yet. The caller
// identity must have been authenticated as the swap participant beforehand.
func (s *Swap) Withdraw(preimage []byte, currentSequence uint32) error {
	if s.IsSettled() {
		return ErrSwapAlreadySettled
	}
	if currentSequence >= s.Timelock {
		return ErrSwapExpired
	}
	if len(preimage) != PreimageSize {
		return ErrInvalidPreimage
	}
	if !bytes.Equal(HashPreimage(preimage), s.Hashlock) {
		return ErrInvalidPreimage
	}

	s.Withdrawn = true
	s.SettledAt = time.Now().Unix()
	return nil
}

// Refund brings an open swap to the Refunded status once the timelock has
// passed. The caller identity must have been authenticated as the swap
// initiator beforehand.
func (s *Swap) Refund(currentSequence uint32) error {
	if s.IsSettled() {
		return ErrSwapAlreadySettled
	}
	if currentSequence < s.Timelock {
		return ErrSwapNotExpired
	}

	s.Refunded = true
	s.SettledAt = time.Now().Unix()
	return nil
}

// IsSettled returns whether the swap reached a terminal status.
func (s *Swap) IsSettled() bool {
	return s.Withdrawn || s.Refunded
}

// Status returns the current status of the swap.
func (s *Swap) Status() SwapStatus {
	switch {
	case s.Withdrawn:
		return SwapStatusWithdrawn
	case s.Refunded:
		return SwapStatusRefunded
	default:
		return SwapStatusOpen
	}
}

// TTL returns how long the swap record must be retained, counted from the
// current ledger sequence. Records survive their timelock by TTLGraceLedgers
// so that relayers can still audit settled swaps.
func (s *Swap) TTL(currentSequence uint32) time.Duration {
	ledgersLeft := TTLGraceLedgers
	if s.Timelock > currentSequence {
		ledgersLeft += s.Timelock - currentSequence
	}
	return time.Duration(ledgersLeft) * LedgerCloseInterval
}

// HashPreimage returns the sha256 digest committing to the given preimage.
func HashPreimage(preimage []byte) []byte {
	hash := sha256.Sum256(preimage)
	return hash[:]
}
