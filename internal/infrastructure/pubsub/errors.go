package pubsub

import "errors"

var (
	// ErrUnknownTopic is returned when subscribing for a topic the swap
	// ledger never publishes.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
