package ports

// Topics published by the swap state machine. Their payloads are part of the
// compatibility surface consumed by off-chain relayers and must not change
// without a version bump.
const (
	SwapInitiatedTopic = "swap_initiated"
	WithdrawnTopic     = "withdrawn"
	RefundedTopic      = "refunded"
)

// AnyTopic subscribes to every event.
const AnyTopic = "*"

// UnspecifiedTopic matches all subscriptions when listing.
const UnspecifiedTopic = ""

// Subscription holds the info of a client subscribed for some topic.
type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// Publisher delivers a message to every consumer interested in a topic.
// Delivery is fire-and-forget and at-least-once, consumers are expected to
// be idempotent.
type Publisher interface {
	Publish(topic, message string) error
}

// SecurePubSub defines the methods of the pubsub service notifying off-chain
// relayers about swap state transitions.
type SecurePubSub interface {
	Publisher
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes a client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// GetSubscription returns the info of the subscription with the given id.
	GetSubscription(id string) (Subscription, error)
	// ListSubscriptionsForTopic returns the info of all clients subscribed
	// for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	Close()
}
