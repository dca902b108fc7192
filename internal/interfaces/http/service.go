package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashlock-network/swapd/internal/core/application"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/hashlock-network/swapd/internal/interfaces"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Addr     string
	SwapSvc  *application.SwapService
	Vault    ports.AssetVault
	PubSub   ports.SecurePubSub
	Auth     ports.Authenticator
	EventHub *EventHub
	// NoAuth skips request signature verification, trusting the identity
	// header as-is. Development setups only.
	NoAuth bool
}

func (o ServiceOpts) validate() error {
	if len(o.Addr) <= 0 {
		return fmt.Errorf("missing listening address")
	}
	if o.SwapSvc == nil {
		return fmt.Errorf("missing swap service")
	}
	if o.Vault == nil {
		return fmt.Errorf("missing asset vault")
	}
	if o.PubSub == nil {
		return fmt.Errorf("missing pubsub service")
	}
	if o.Auth == nil {
		return fmt.Errorf("missing authenticator")
	}
	if o.EventHub == nil {
		return fmt.Errorf("missing event hub")
	}
	return nil
}

type service struct {
	opts       ServiceOpts
	httpServer *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid service opts: %w", err)
	}

	return &service{
		opts: opts,
		httpServer: &http.Server{
			Addr:    opts.Addr,
			Handler: newRouter(opts),
		},
	}, nil
}

func newRouter(opts ServiceOpts) *mux.Router {
	handler := &swapHandler{
		swapSvc: opts.SwapSvc,
		vault:   opts.Vault,
		pubsub:  opts.PubSub,
		auth:    opts.Auth,
	}

	router := mux.NewRouter()
	router.Use(loggingMiddleware, metricsMiddleware, authMiddleware(opts.NoAuth))

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/swaps", handler.initiateSwap).Methods(http.MethodPost)
	v1.HandleFunc("/swaps", handler.listSwaps).Methods(http.MethodGet)
	v1.HandleFunc("/swaps/{id}", handler.getSwap).Methods(http.MethodGet)
	v1.HandleFunc("/swaps/{id}/withdraw", handler.withdrawSwap).
		Methods(http.MethodPost)
	v1.HandleFunc("/swaps/{id}/refund", handler.refundSwap).
		Methods(http.MethodPost)
	v1.HandleFunc("/subscriptions", handler.subscribe).Methods(http.MethodPost)
	v1.HandleFunc("/subscriptions", handler.listSubscriptions).
		Methods(http.MethodGet)
	v1.HandleFunc("/subscriptions/{id}", handler.getSubscription).
		Methods(http.MethodGet)
	v1.HandleFunc("/subscriptions/{id}", handler.unsubscribe).
		Methods(http.MethodDelete)
	v1.HandleFunc("/deposits", handler.deposit).Methods(http.MethodPost)
	v1.HandleFunc("/balances/{owner}", handler.getBalance).
		Methods(http.MethodGet)
	v1.HandleFunc("/events", opts.EventHub.handleEvents).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func (s *service) Start() error {
	log.Infof("http interface listening on %s", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			return err
		}
	}
	return nil
}

func (s *service) Stop() {
	s.opts.EventHub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully shutdown http interface")
	}
	log.Debug("http interface stopped")
}
