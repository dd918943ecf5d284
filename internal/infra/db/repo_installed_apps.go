package db

import (
	"context"
	"errors"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstalledAppRepository struct {
	db *gorm.DB
}

func NewInstalledAppRepository(db *gorm.DB) *InstalledAppRepository {
	return &InstalledAppRepository{db: db}
}

func (r *InstalledAppRepository) List(ctx context.Context) ([]domain.InstalledApp, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var models []InstalledAppModel
	if err := r.db.WithContext(ctx).Order("installed_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	apps := make([]domain.InstalledApp, 0, len(models))
	for _, model := range models {
		apps = append(apps, installedFromModel(model))
	}
	return apps, nil
}

func (r *InstalledAppRepository) GetByID(ctx context.Context, id string) (*domain.InstalledApp, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var model InstalledAppModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	app := installedFromModel(model)
	return &app, nil
}

// Install records an installed row for a catalog app, refusing duplicates.
func (r *InstalledAppRepository) Install(ctx context.Context, app domain.InstalledApp) (*domain.InstalledApp, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&InstalledAppModel{}).
		Where("catalog_app_id = ?", app.CatalogAppID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrAlreadyInstalled
	}
	model := installedToModel(app)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *InstalledAppRepository) UpdateState(ctx context.Context, id string, state domain.InstallState) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	result := r.db.WithContext(ctx).Model(&InstalledAppModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"state": string(state)})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InstalledAppRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&InstalledAppModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func installedFromModel(model InstalledAppModel) domain.InstalledApp {
	return domain.InstalledApp{
		ID:           model.ID,
		CatalogAppID: model.CatalogAppID,
		RepositoryID: model.RepositoryID,
		AppID:        model.AppID,
		Name:         model.Name,
		State:        domain.InstallState(model.State),
		InstalledAt:  model.InstalledAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func installedToModel(app domain.InstalledApp) InstalledAppModel {
	return InstalledAppModel{
		ID:           app.ID,
		CatalogAppID: app.CatalogAppID,
		RepositoryID: app.RepositoryID,
		AppID:        app.AppID,
		Name:         app.Name,
		State:        string(app.State),
		InstalledAt:  app.InstalledAt,
		UpdatedAt:    app.UpdatedAt,
	}
}
