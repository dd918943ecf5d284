package usecase

import (
	"context"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"
)

type RepositoryStore interface {
	GetByID(ctx context.Context, id string) (*domain.Repository, error)
	UpdateStatus(ctx context.Context, id string, upd domain.RepositoryStatusUpdate) error
	// UpdateStatusFrom applies upd only while the row still holds the from
	// status, reporting whether the guarded write took effect.
	UpdateStatusFrom(ctx context.Context, id string, from domain.SyncStatus, upd domain.RepositoryStatusUpdate) (bool, error)
}

type RepositoryAdminStore interface {
	GetByID(ctx context.Context, id string) (*domain.Repository, error)
	Create(ctx context.Context, repo domain.Repository) error
	// Delete removes the repository together with its catalog apps and
	// cache row.
	Delete(ctx context.Context, id string) error
}

type ManifestCacheStore interface {
	Get(ctx context.Context, repositoryID string) (*domain.ManifestCacheEntry, error)
	Upsert(ctx context.Context, entry domain.ManifestCacheEntry) error
}

type CatalogAppStore interface {
	FindByAppID(ctx context.Context, repositoryID, appID string) (*domain.CatalogApp, error)
	Insert(ctx context.Context, app domain.CatalogApp) error
	Update(ctx context.Context, app domain.CatalogApp) error
}

// ManifestFetcher retrieves the raw manifest document. The context carries
// the fetch deadline; implementations must release the connection when it
// expires and return an error whose text distinguishes a timeout from
// other transport failures.
type ManifestFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// AdmissionPolicy gates manifest entries before reconciliation. Optional.
type AdmissionPolicy interface {
	Evaluate(ctx context.Context, input domain.AdmissionInput) (domain.AdmissionDecision, error)
}
