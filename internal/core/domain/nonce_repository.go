package domain

import "context"

// NonceRepository is a keyed counter service issuing a monotonically
// increasing nonce per depositor identity. The counter read and increment
// must happen as one atomic unit per call.
type NonceRepository interface {
	// NextNonce returns the current counter for the identity, zero if
	// absent, and durably stores counter+1.
	NextNonce(ctx context.Context, identity string) (uint64, error)
	Close()
}
