package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"go.uber.org/ratelimit"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// maxPollRate bounds the fallback polling against the horizon endpoint.
	maxPollRate = 2 // requests per second

	requestTimeout = 15 * time.Second
)

// staleAfter is how long a streamed sequence stays trusted. Past this the
// clock falls back to polling, since a swap settled against a stale
// sequence could be accepted after its timelock already elapsed.
var staleAfter = 3 * domain.LedgerCloseInterval

type ledgerCloseMsg struct {
	Sequence uint32 `json:"sequence"`
	ClosedAt string `json:"closed_at"`
}

type service struct {
	wsURL      string
	httpURL    string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	lock       *sync.RWMutex

	conn           *websocket.Conn
	latestSequence uint32
	latestSeenAt   time.Time
	quitChan       chan struct{}
}

// NewService returns a LedgerClock tracking the chain's current ledger
// sequence. It streams ledger closes from wsURL and keeps the latest one
// cached; httpURL is polled whenever the cached value goes stale.
func NewService(wsURL, httpURL string) (ports.LedgerClock, error) {
	if len(httpURL) <= 0 {
		return nil, fmt.Errorf("missing ledger http endpoint")
	}

	svc := &service{
		wsURL:      wsURL,
		httpURL:    httpURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    ratelimit.New(maxPollRate),
		lock:       &sync.RWMutex{},
		quitChan:   make(chan struct{}, 1),
	}

	if len(wsURL) > 0 {
		conn, err := connect(wsURL)
		if err != nil {
			return nil, err
		}
		svc.conn = conn
		go svc.stream()
	}

	return svc, nil
}

func (s *service) CurrentSequence(ctx context.Context) (uint32, error) {
	if seq, ok := s.readLatestSequence(); ok {
		return seq, nil
	}
	return s.pollSequence(ctx)
}

func (s *service) Close() {
	s.quitChan <- struct{}{}
}

func (s *service) stream() {
	mustReconnect, err := s.readLoop()
	for mustReconnect {
		log.WithError(err).Warn(
			"ledger stream dropped unexpectedly. Trying to reconnect...",
		)

		var conn *websocket.Conn
		conn, err = connect(s.wsURL)
		if err != nil {
			log.WithError(err).Error("failed to re-establish ledger stream")
			return
		}
		s.conn = conn

		log.Debug("ledger stream re-established. Restarting...")
		mustReconnect, err = s.readLoop()
	}

	if err != nil {
		log.WithError(err).Error("ledger stream closed")
	}
}

func (s *service) readLoop() (mustReconnect bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mustReconnect = true
		}
	}()

	for {
		select {
		case <-s.quitChan:
			err = s.conn.Close()
			return false, err
		default:
			// ReadMessage can panic instead of returning an
			// UnexpectedCloseError when the peer drops the connection.
			// The deferred recover turns both cases into a reconnection.
			_, message, err := s.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				) {
					panic(err)
				}
				continue
			}

			var msg ledgerCloseMsg
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}
			if msg.Sequence <= 0 {
				continue
			}

			s.writeLatestSequence(msg.Sequence)
		}
	}
}

func (s *service) readLatestSequence() (uint32, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.latestSequence <= 0 {
		return 0, false
	}
	if time.Since(s.latestSeenAt) > staleAfter {
		return 0, false
	}
	return s.latestSequence, true
}

func (s *service) writeLatestSequence(sequence uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if sequence <= s.latestSequence {
		return
	}
	s.latestSequence = sequence
	s.latestSeenAt = time.Now()
}

func (s *service) pollSequence(ctx context.Context) (uint32, error) {
	s.limiter.Take()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.httpURL, nil)
	if err != nil {
		return 0, err
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("polling ledger sequence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf(
			"polling ledger sequence: unexpected status %d", res.StatusCode,
		)
	}

	var msg ledgerCloseMsg
	if err := json.NewDecoder(res.Body).Decode(&msg); err != nil {
		return 0, fmt.Errorf("polling ledger sequence: %w", err)
	}
	if msg.Sequence <= 0 {
		return 0, fmt.Errorf("polling ledger sequence: missing sequence in response")
	}

	s.writeLatestSequence(msg.Sequence)
	return msg.Sequence, nil
}

func connect(wsURL string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to ledger stream: %s", err)
	}
	return conn, nil
}
