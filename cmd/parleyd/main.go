package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"parley/internal/api"
	"parley/internal/config"
	"parley/internal/daemon"
	"parley/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Provider keys may live in a local .env during development.
	_ = godotenv.Load()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, chain, err := bootstrap(cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", logging.Error(err))
		return
	}
	defer store.Close()

	service := newTurnService(store, chain, logger)
	handler := api.NewHandler(store, service, logging.NewComponentLogger(logger, "api"))
	router := api.NewRouter(handler, logging.NewComponentLogger(logger, "http"),
		time.Duration(cfg.Server.RequestTimeoutSeconds)*time.Second)

	d, err := daemon.New(cfg, router, logging.NewComponentLogger(logger, "daemon"))
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("parleyd shutting down")
}
