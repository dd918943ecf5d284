package db

import (
	"context"
	"errors"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogAppRepository struct {
	db *gorm.DB
}

func NewCatalogAppRepository(db *gorm.DB) *CatalogAppRepository {
	return &CatalogAppRepository{db: db}
}

func (r *CatalogAppRepository) FindByAppID(ctx context.Context, repositoryID, appID string) (*domain.CatalogApp, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var model CatalogAppModel
	err := r.db.WithContext(ctx).
		Where("repository_id = ? AND app_id = ?", repositoryID, appID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	app := catalogAppFromModel(model)
	return &app, nil
}

func (r *CatalogAppRepository) GetByID(ctx context.Context, id string) (*domain.CatalogApp, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	var model CatalogAppModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	app := catalogAppFromModel(model)
	return &app, nil
}

func (r *CatalogAppRepository) List(ctx context.Context, repositoryID, category string) ([]domain.CatalogApp, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	query := r.db.WithContext(ctx).Model(&CatalogAppModel{})
	if repositoryID != "" {
		query = query.Where("repository_id = ?", repositoryID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var models []CatalogAppModel
	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	apps := make([]domain.CatalogApp, 0, len(models))
	for _, model := range models {
		apps = append(apps, catalogAppFromModel(model))
	}
	return apps, nil
}

func (r *CatalogAppRepository) Insert(ctx context.Context, app domain.CatalogApp) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	model := catalogAppToModel(app)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = app.UpdatedAt
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *CatalogAppRepository) Update(ctx context.Context, app domain.CatalogApp) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}
	if app.ID == "" {
		return domain.ErrNotFound
	}
	model := catalogAppToModel(app)
	result := r.db.WithContext(ctx).Model(&CatalogAppModel{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{
			"name":         model.Name,
			"description":  model.Description,
			"icon":         model.Icon,
			"category":     model.Category,
			"version":      model.Version,
			"author":       model.Author,
			"website":      model.Website,
			"docs":         model.Docs,
			"source_repo":  model.SourceRepo,
			"image":        model.Image,
			"compose":      model.Compose,
			"env_vars":     model.EnvVars,
			"ports":        model.Ports,
			"volumes":      model.Volumes,
			"dependencies": model.Dependencies,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func catalogAppFromModel(model CatalogAppModel) domain.CatalogApp {
	return domain.CatalogApp{
		ID:           model.ID,
		RepositoryID: model.RepositoryID,
		AppID:        model.AppID,
		Name:         model.Name,
		Description:  model.Description,
		Icon:         model.Icon,
		Category:     model.Category,
		Version:      model.Version,
		Author:       model.Author,
		Website:      model.Website,
		Docs:         model.Docs,
		SourceRepo:   model.SourceRepo,
		Image:        model.Image,
		Compose:      model.Compose,
		EnvVars:      unmarshalList[domain.EnvVar](model.EnvVars),
		Ports:        unmarshalList[domain.PortMapping](model.Ports),
		Volumes:      unmarshalList[domain.VolumeMapping](model.Volumes),
		Dependencies: unmarshalList[string](model.Dependencies),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func catalogAppToModel(app domain.CatalogApp) CatalogAppModel {
	return CatalogAppModel{
		ID:           app.ID,
		RepositoryID: app.RepositoryID,
		AppID:        app.AppID,
		Name:         app.Name,
		Description:  app.Description,
		Icon:         app.Icon,
		Category:     app.Category,
		Version:      app.Version,
		Author:       app.Author,
		Website:      app.Website,
		Docs:         app.Docs,
		SourceRepo:   app.SourceRepo,
		Image:        app.Image,
		Compose:      app.Compose,
		EnvVars:      marshalJSONB(app.EnvVars),
		Ports:        marshalJSONB(app.Ports),
		Volumes:      marshalJSONB(app.Volumes),
		Dependencies: marshalJSONB(app.Dependencies),
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}
}
