package main

import (
	"log"

	"github.com/Val-k7/autoserve-hub-sub000/internal/config"
	"github.com/Val-k7/autoserve-hub-sub000/internal/infra/db"
	httpinfra "github.com/Val-k7/autoserve-hub-sub000/internal/infra/http"
	"github.com/Val-k7/autoserve-hub-sub000/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	store, err := db.NewStore(cfg)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}

	srv := httpinfra.NewServer(cfg, store, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
