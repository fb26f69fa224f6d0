package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/btc-session-daemon/internal/config"
	"github.com/tdex-network/btc-session-daemon/internal/core/application"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	descriptorwallet "github.com/tdex-network/btc-session-daemon/internal/infrastructure/descriptor-wallet"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/pubsub"
	dbbadger "github.com/tdex-network/btc-session-daemon/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/btc-session-daemon/internal/interfaces/http"
	"github.com/tdex-network/btc-session-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)
	tlsDir := filepath.Join(datadir, config.TLSLocation)
	profilerDir := filepath.Join(datadir, config.ProfilerLocation)

	store, err := newSessionStore(config.GetString(config.DBTypeKey), dbDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open session store")
	}

	webhookSvc, err := pubsub.NewService(pubsub.ServiceOpts{
		Endpoints: config.GetStringSlice(config.WebhookEndpointsKey),
		Secret:    config.GetString(config.WebhookSecretKey),
		RequestTimeout: time.Duration(
			config.GetInt(config.WebhookTimeoutKey),
		) * time.Second,
	})
	if err != nil {
		store.Close()
		log.WithError(err).Fatal("failed to init webhooks")
	}

	sessionSvc, err := application.NewSessionService(application.SessionServiceOpts{
		Store:              store,
		WalletFactory:      descriptorwallet.NewFactory(),
		Publisher:          webhookSvc,
		Network:            config.GetNetwork(),
		MnemonicPassphrase: config.GetString(config.MnemonicPassphraseKey),
	})
	if err != nil {
		store.Close()
		log.WithError(err).Fatal("failed to init session service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick up the session persisted by a previous run, if any.
	if info := sessionSvc.CheckSession(ctx); info.Connected {
		log.Infof(
			"restored %s wallet session for %s, address derivation requires "+
				"the session to be created again",
			info.Network, info.ShortAddress,
		)
	} else {
		log.Infof(
			"no wallet session found, waiting for one to be created on %s",
			sessionSvc.GetNetwork(),
		)
	}

	registry := prometheus.NewRegistry()
	httpSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:        fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		TLSLocation:    tlsDir,
		NoTLS:          config.GetBool(config.NoTLSKey),
		ExtraIPs:       config.GetStringSlice(config.ExtraIPKey),
		ExtraDomains:   config.GetStringSlice(config.ExtraDomainKey),
		EnableProfiler: config.GetBool(config.EnableProfilerKey),
		Registry:       registry,
		SessionSvc:     sessionSvc,
		WebhookSvc:     webhookSvc,
	})
	if err != nil {
		shutdown(sessionSvc, webhookSvc, store)
		log.WithError(err).Fatal("failed to init http interface")
	}

	if err := httpSvc.Start(); err != nil {
		shutdown(sessionSvc, webhookSvc, store)
		log.WithError(err).Fatal("failed to start http interface")
	}

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(
			ctx, interval, registry, profilerDir,
		)
	}

	log.Info("btc session daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
	cancel()
	httpSvc.Stop()
	shutdown(sessionSvc, webhookSvc, store)
	log.Info("exiting")
}

func newSessionStore(dbType, dbDir string) (ports.SessionStore, error) {
	switch dbType {
	case config.DBInMemory:
		return inmemory.NewSessionStore(), nil
	default:
		return dbbadger.NewSessionStore(dbDir, nil)
	}
}

func shutdown(
	sessionSvc application.SessionService,
	webhookSvc pubsub.Service,
	store ports.SessionStore,
) {
	sessionSvc.Close()
	webhookSvc.Close()
	store.Close()
}
