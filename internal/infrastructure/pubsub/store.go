package pubsub

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const subscriptionsDir = "pubsub"

// store persists relayer subscriptions so they survive daemon restarts.
type store struct {
	db *badgerhold.Store
}

func newStore(baseDbDir string, logger badger.Logger) (*store, error) {
	var dir string
	if len(baseDbDir) > 0 {
		dir = filepath.Join(baseDbDir, subscriptionsDir)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = logger
	if len(dir) <= 0 {
		opts.InMemory = true
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, fmt.Errorf("opening subscription store: %w", err)
	}

	return &store{db}, nil
}

func (s *store) addSubscription(sub *Subscription) error {
	if err := s.db.Insert(sub.ID, *sub); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return nil
		}
		return err
	}
	return nil
}

func (s *store) getSubscription(id string) (*Subscription, error) {
	var sub Subscription
	if err := s.db.Get(id, &sub); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *store) removeSubscription(id string) error {
	if err := s.db.Delete(id, Subscription{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *store) getSubscriptionsForTopic(topic string) (subscriptions, error) {
	var subs []Subscription
	if err := s.db.Find(&subs, badgerhold.Where("Event").Eq(topic)); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *store) getAllSubscriptions() (subscriptions, error) {
	var subs []Subscription
	if err := s.db.Find(&subs, nil); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *store) close() error {
	return s.db.Close()
}
