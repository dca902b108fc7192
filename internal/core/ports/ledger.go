package ports

import "context"

// LedgerClock reports the host ledger's monotonic sequence number. All
// timelock comparisons of the state machine are made against this clock.
type LedgerClock interface {
	// CurrentSequence returns the sequence of the latest closed ledger.
	CurrentSequence(ctx context.Context) (uint32, error)
	Close()
}
