package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashlock-network/swapd/internal/config"
	"github.com/hashlock-network/swapd/internal/core/application"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/hashlock-network/swapd/internal/infrastructure/auth"
	"github.com/hashlock-network/swapd/internal/infrastructure/ledger"
	"github.com/hashlock-network/swapd/internal/infrastructure/pubsub"
	dbbadger "github.com/hashlock-network/swapd/internal/infrastructure/storage/db/badger"
	"github.com/hashlock-network/swapd/internal/infrastructure/storage/db/inmemory"
	"github.com/hashlock-network/swapd/internal/infrastructure/vault"
	httpinterface "github.com/hashlock-network/swapd/internal/interfaces/http"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)

	repoManager, err := newRepoManager(dbDir)
	if err != nil {
		log.WithError(err).Fatal("error while opening db")
	}
	defer repoManager.Close()

	assetVault, err := vault.NewService(dbDir, nil)
	if err != nil {
		log.WithError(err).Fatal("error while opening account book")
	}
	defer assetVault.Close()

	ledgerClock, err := ledger.NewService(
		config.GetString(config.LedgerWSAddrKey),
		config.GetString(config.LedgerHTTPAddrKey),
	)
	if err != nil {
		log.WithError(err).Fatal("error while connecting to ledger")
	}
	defer ledgerClock.Close()

	pubsubSvc, err := pubsub.NewService(dbDir, nil)
	if err != nil {
		log.WithError(err).Fatal("error while opening subscription store")
	}
	defer pubsubSvc.Close()

	authenticator := auth.NewService()
	eventHub := httpinterface.NewEventHub()

	swapSvc := application.NewSwapService(
		repoManager,
		assetVault,
		ledgerClock,
		authenticator,
		pubsubSvc, eventHub,
	)

	noAuth := config.GetBool(config.NoAuthKey)
	if noAuth {
		log.Warn("authentication is disabled, do not use this in production")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Addr:     fmt.Sprintf(":%+v", config.GetInt(config.ListeningPortKey)),
		SwapSvc:  swapSvc,
		Vault:    assetVault,
		PubSub:   pubsubSvc,
		Auth:     authenticator,
		EventHub: eventHub,
		NoAuth:   noAuth,
	})
	if err != nil {
		log.WithError(err).Fatal("error while setting up http interface")
	}

	log.Debug("starting daemon")

	go func() {
		if err := svc.Start(); err != nil {
			log.WithError(err).Fatal("error listening on http interface")
		}
	}()
	defer svc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Debug("exiting")
}

func newRepoManager(dbDir string) (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	default:
		return dbbadger.NewRepoManager(dbDir, nil)
	}
}
