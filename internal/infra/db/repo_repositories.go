package db

import (
	"context"
	"errors"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"gorm.io/gorm"
)

type RepositoryRepository struct {
	db *gorm.DB
}

func NewRepositoryRepository(db *gorm.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

func (r *RepositoryRepository) GetByID(ctx context.Context, id string) (*domain.Repository, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var model RepositoryModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	repo := repositoryFromModel(model)
	return &repo, nil
}

func (r *RepositoryRepository) List(ctx context.Context) ([]domain.Repository, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var models []RepositoryModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	repos := make([]domain.Repository, 0, len(models))
	for _, model := range models {
		repos = append(repos, repositoryFromModel(model))
	}
	return repos, nil
}

func (r *RepositoryRepository) Create(ctx context.Context, repo domain.Repository) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	model := repositoryToModel(repo)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Delete removes the repository together with its catalog apps and cache
// row. Installed rows keep their repository id but are detached records by
// then; the dashboard treats them as orphaned installs.
func (r *RepositoryRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repository_id = ?", id).Delete(&CatalogAppModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("repository_id = ?", id).Delete(&ManifestCacheModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&RepositoryModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *RepositoryRepository) UpdateStatus(ctx context.Context, id string, upd domain.RepositoryStatusUpdate) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	result := r.db.WithContext(ctx).Model(&RepositoryModel{}).
		Where("id = ?", id).
		Updates(statusColumns(upd))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RepositoryRepository) UpdateStatusFrom(ctx context.Context, id string, from domain.SyncStatus, upd domain.RepositoryStatusUpdate) (bool, error) {
	if r.db == nil {
		return false, domain.ErrStoreUnavailable
	}
	result := r.db.WithContext(ctx).Model(&RepositoryModel{}).
		Where("id = ? AND sync_status = ?", id, string(from)).
		Updates(statusColumns(upd))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func statusColumns(upd domain.RepositoryStatusUpdate) map[string]any {
	columns := map[string]any{
		"sync_status": string(upd.Status),
		"last_error":  upd.LastError,
	}
	if upd.LastSyncedAt != nil {
		columns["last_synced_at"] = *upd.LastSyncedAt
	}
	return columns
}

func repositoryFromModel(model RepositoryModel) domain.Repository {
	return domain.Repository{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		URL:          model.URL,
		SourceType:   model.SourceType,
		Official:     model.Official,
		Enabled:      model.Enabled,
		SyncStatus:   domain.SyncStatus(model.SyncStatus),
		LastError:    model.LastError,
		LastSyncedAt: model.LastSyncedAt,
		CreatedAt:    model.CreatedAt,
	}
}

func repositoryToModel(repo domain.Repository) RepositoryModel {
	return RepositoryModel{
		ID:           repo.ID,
		Name:         repo.Name,
		Description:  repo.Description,
		URL:          repo.URL,
		SourceType:   repo.SourceType,
		Official:     repo.Official,
		Enabled:      repo.Enabled,
		SyncStatus:   string(repo.SyncStatus),
		LastError:    repo.LastError,
		LastSyncedAt: repo.LastSyncedAt,
		CreatedAt:    repo.CreatedAt,
	}
}
