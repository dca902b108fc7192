package pubsub

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/hashlock-network/swapd/internal/core/ports"
)

var knownTopics = map[string]struct{}{
	ports.SwapInitiatedTopic: {},
	ports.WithdrawnTopic:     {},
	ports.RefundedTopic:      {},
	ports.AnyTopic:           {},
}

// Subscription is a relayer endpoint registered for a certain topic. If a
// secret is set, notifications carry a JWT signed with it so the receiver
// can authenticate the daemon.
type Subscription struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type subscriptions []Subscription

func (s subscriptions) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(s))
	for i := range s {
		sub := s[i]
		subs = append(subs, &sub)
	}
	return subs
}

func NewSubscription(event, endpoint, secret string) (*Subscription, error) {
	if _, ok := knownTopics[event]; !ok {
		return nil, ErrUnknownTopic
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid subscription endpoint, must be a valid URI")
	}
	id := uuid.New().String()
	return &Subscription{id, event, endpoint, secret}, nil
}

func (s *Subscription) Topic() string {
	return s.Event
}

func (s *Subscription) Id() string {
	return s.ID
}

func (s *Subscription) NotifyAt() string {
	return s.Endpoint
}

func (s *Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}
