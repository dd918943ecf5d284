package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"github.com/google/uuid"
)

type CreateRepositoryRequest struct {
	Name        string
	Description string
	URL         string
}

// RepositoryAdmin covers the dashboard's add/remove repository flows.
type RepositoryAdmin struct {
	Repos       RepositoryAdminStore
	TrustedHost string
	Now         func() time.Time
}

func (s *RepositoryAdmin) Create(ctx context.Context, req CreateRepositoryRequest) (*domain.Repository, error) {
	if !domain.IsValidRepositoryName(req.Name) {
		return nil, fmt.Errorf("%w: must be 3-100 characters", domain.ErrInvalidName)
	}
	if !domain.IsTrustedManifestURL(req.URL, s.TrustedHost) {
		return nil, fmt.Errorf("%w: expected https://%s/...", domain.ErrUntrustedURL, s.trustedHost())
	}
	repo := domain.Repository{
		ID:          uuid.NewString(),
		Name:        domain.SanitizeForStorage(req.Name),
		Description: domain.SanitizeForStorage(req.Description),
		URL:         req.URL,
		SourceType:  domain.SourceTypeGithubRaw,
		Official:    false,
		Enabled:     true,
		SyncStatus:  domain.SyncStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.Repos.Create(ctx, repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Delete removes a user-added repository and, through the store, its
// catalog apps and cache row. Official repositories are refused.
func (s *RepositoryAdmin) Delete(ctx context.Context, id string) error {
	repo, err := s.Repos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if repo.Official {
		return domain.ErrOfficialRepository
	}
	return s.Repos.Delete(ctx, id)
}

func (s *RepositoryAdmin) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *RepositoryAdmin) trustedHost() string {
	if s.TrustedHost != "" {
		return s.TrustedHost
	}
	return domain.DefaultTrustedManifestHost
}
