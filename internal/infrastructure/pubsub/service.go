package pubsub

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/hashlock-network/swapd/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

type service struct {
	store      *store
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

// NewService returns a webhook notifier that persists subscriptions under
// baseDbDir. An empty baseDbDir keeps subscriptions in memory only.
func NewService(baseDbDir string, logger badger.Logger) (ports.SecurePubSub, error) {
	store, err := newStore(baseDbDir, logger)
	if err != nil {
		return nil, err
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(15 * time.Second),
		cb:         circuitbreaker.NewCircuitBreaker(),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.addSubscription(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.store.removeSubscription(id)
}

func (ws *service) GetSubscription(id string) (ports.Subscription, error) {
	sub, err := ws.store.getSubscription(id)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	subs, err := ws.listSubscriptionsForTopic(topic)
	if err != nil {
		log.WithError(err).Warn("pubsub: failed to list subscriptions")
		return nil
	}
	return subs.toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	subs, err := ws.listSubscriptionsForTopic(topic)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) Close() {
	if err := ws.store.close(); err != nil {
		log.WithError(err).Warn("pubsub: failed to close subscription store")
	}
}

func (ws *service) listSubscriptionsForTopic(topic string) (subscriptions, error) {
	var subs subscriptions
	var err error
	if topic == ports.UnspecifiedTopic {
		subs, err = ws.store.getAllSubscriptions()
	} else {
		subs, err = ws.store.getSubscriptionsForTopic(topic)
		if err == nil && topic != ports.AnyTopic {
			var subsForAnyTopic subscriptions
			subsForAnyTopic, err = ws.store.getSubscriptionsForTopic(ports.AnyTopic)
			subs = append(subs, subsForAnyTopic...)
		}
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			secret := []byte(sub.Secret)
			tokenString, _ := token.SignedString(secret)
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(resp)
		}
		return nil, nil
	})

	return err
}
