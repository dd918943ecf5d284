package db

import (
	"context"
	"errors"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ManifestCacheRepository struct {
	db *gorm.DB
}

func NewManifestCacheRepository(db *gorm.DB) *ManifestCacheRepository {
	return &ManifestCacheRepository{db: db}
}

func (r *ManifestCacheRepository) Get(ctx context.Context, repositoryID string) (*domain.ManifestCacheEntry, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var model ManifestCacheModel
	err := r.db.WithContext(ctx).First(&model, "repository_id = ?", repositoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.ManifestCacheEntry{
		RepositoryID: model.RepositoryID,
		Payload:      model.Payload,
		CachedAt:     model.CachedAt,
		ExpiresAt:    model.ExpiresAt,
	}, nil
}

// Upsert overwrites the single live cache row for the repository.
func (r *ManifestCacheRepository) Upsert(ctx context.Context, entry domain.ManifestCacheEntry) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	model := ManifestCacheModel{
		RepositoryID: entry.RepositoryID,
		Payload:      entry.Payload,
		CachedAt:     entry.CachedAt,
		ExpiresAt:    entry.ExpiresAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "repository_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "cached_at", "expires_at"}),
	}).Create(&model).Error
}
