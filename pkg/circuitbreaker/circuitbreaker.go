package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

var (
	// MinRequestsBeforeTripping is the number of webhook deliveries that must
	// have been attempted before the breaker is allowed to open.
	MinRequestsBeforeTripping = 10
	// FailingRatio is the failed/total delivery ratio at which the breaker
	// opens.
	FailingRatio = 0.6
	// CooldownPeriod is how long the breaker stays open before retrying the
	// relayer endpoints.
	CooldownPeriod = 30 * time.Second
)

// NewCircuitBreaker returns the *gobreaker.CircuitBreaker guarding webhook
// deliveries towards relayer endpoints. Once at least
// MinRequestsBeforeTripping deliveries have been attempted and FailingRatio of
// them failed, further deliveries are shed until CooldownPeriod expires, so an
// unreachable relayer cannot stall event publishing.
func NewCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "webhook-dispatcher",
		Timeout: CooldownPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MinRequestsBeforeTripping && ratio >= FailingRatio
		},
	})
}
