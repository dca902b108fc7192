package domain

import "errors"

var (
	// ErrInvalidAmount is returned when trying to escrow a non-positive amount.
	ErrInvalidAmount = errors.New("swap amount must be greater than zero")
	// ErrInvalidHashlock is returned when the hashlock is not a sha256 digest.
	ErrInvalidHashlock = errors.New("hashlock must be exactly 32 bytes")
	// ErrTimelockTooShort is returned when the timelock would not leave the
	// participant enough time to react.
	ErrTimelockTooShort = errors.New("timelock too close to the current ledger sequence")
	// ErrTimelockTooLong is returned when the timelock would lock funds for
	// more than the maximum window.
	ErrTimelockTooLong = errors.New("timelock exceeds the maximum lock-up window")
	// ErrSwapNotFound ...
	ErrSwapNotFound = errors.New("swap does not exist")
	// ErrSwapAlreadyExists is returned when initiating a swap with a hashlock
	// already used as identifier of another swap.
	ErrSwapAlreadyExists = errors.New("swap already exists for hashlock")
	// ErrUnauthorized is returned when the invoking identity is not the party
	// entitled to the requested transition.
	ErrUnauthorized = errors.New("caller is not authorized")
	// ErrSwapAlreadySettled is returned on any transition attempt out of a
	// terminal status.
	ErrSwapAlreadySettled = errors.New("swap already withdrawn or refunded")
	// ErrSwapExpired is returned when withdrawing after the timelock.
	ErrSwapExpired = errors.New("swap timelock expired")
	// ErrSwapNotExpired is returned when refunding before the timelock.
	ErrSwapNotExpired = errors.New("swap timelock not expired yet")
	// ErrInvalidPreimage is returned when the disclosed secret does not match
	// the hashlock commitment.
	ErrInvalidPreimage = errors.New("preimage does not match hashlock")
)
