package db

import "time"

type RepositoryModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	URL          string `gorm:"column:url;not null"`
	SourceType   string `gorm:"not null"`
	Official     bool   `gorm:"not null"`
	Enabled      bool   `gorm:"not null"`
	SyncStatus   string `gorm:"index;not null"`
	LastError    *string
	LastSyncedAt *time.Time
	CreatedAt    time.Time `gorm:"not null"`
}

func (RepositoryModel) TableName() string { return "repositories" }

type ManifestCacheModel struct {
	RepositoryID string    `gorm:"type:uuid;primaryKey"`
	Payload      []byte    `gorm:"type:jsonb;not null"`
	CachedAt     time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
}

func (ManifestCacheModel) TableName() string { return "manifest_cache" }

type CatalogAppModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	RepositoryID string `gorm:"type:uuid;uniqueIndex:idx_catalog_apps_repo_app;not null"`
	AppID        string `gorm:"uniqueIndex:idx_catalog_apps_repo_app;not null"`
	Name         string `gorm:"not null"`
	Description  *string
	Icon         *string
	Category     *string `gorm:"index"`
	Version      *string
	Author       *string
	Website      *string
	Docs         *string
	SourceRepo   *string
	Image        *string
	Compose      *string
	EnvVars      []byte    `gorm:"type:jsonb"`
	Ports        []byte    `gorm:"type:jsonb"`
	Volumes      []byte    `gorm:"type:jsonb"`
	Dependencies []byte    `gorm:"type:jsonb"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (CatalogAppModel) TableName() string { return "catalog_apps" }

type InstalledAppModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	CatalogAppID string    `gorm:"type:uuid;uniqueIndex;not null"`
	RepositoryID string    `gorm:"type:uuid;index;not null"`
	AppID        string    `gorm:"not null"`
	Name         string    `gorm:"not null"`
	State        string    `gorm:"not null"`
	InstalledAt  time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (InstalledAppModel) TableName() string { return "installed_apps" }
