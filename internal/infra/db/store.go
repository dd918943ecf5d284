package db

import (
	"fmt"

	"github.com/Val-k7/autoserve-hub-sub000/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	DB *gorm.DB
}

// NewStore connects to postgres and migrates the schema. An empty DSN
// yields a no-db store; handlers report the mode via /healthz and mutating
// endpoints fail with a store-unavailable error.
func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.AutoMigrate(
		&RepositoryModel{},
		&ManifestCacheModel{},
		&CatalogAppModel{},
		&InstalledAppModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{DB: gdb}, nil
}
