package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"go.uber.org/zap"
)

type SyncRepositoryRequest struct {
	RepositoryID string
}

// SyncResult is the outcome of one sync run. Success is true whenever the
// run reached the reconciliation stage, even with per-entry errors; only
// validation, transport and parse failures make the whole run fail.
type SyncResult struct {
	Success      bool
	Message      string
	SuccessCount int
	ErrorCount   int
	Cached       bool
}

// SyncRepository pulls a repository's manifest (or a fresh cached copy of
// it), normalizes the payload and reconciles every described app into the
// catalog, tracking per-entry success and failure.
type SyncRepository struct {
	Repos   RepositoryStore
	Cache   ManifestCacheStore
	Apps    CatalogAppStore
	Fetcher ManifestFetcher
	Policy  AdmissionPolicy
	Log     *zap.Logger

	TrustedHost  string
	FetchTimeout time.Duration
	CacheTTL     time.Duration
	Now          func() time.Time
}

func (uc *SyncRepository) Execute(ctx context.Context, req SyncRepositoryRequest) (*SyncResult, error) {
	if req.RepositoryID == "" {
		return nil, errors.New("repositoryId is required")
	}
	now := uc.now()

	if cached, err := uc.Cache.Get(ctx, req.RepositoryID); err == nil && cached.Fresh(now) {
		if entries, err := parseManifest(cached.Payload); err == nil {
			result := uc.reconcile(ctx, req.RepositoryID, entries)
			result.Cached = true
			uc.finalize(ctx, req.RepositoryID, result, false)
			return result, nil
		}
		// A cached payload that no longer normalizes is treated as stale.
		uc.log().Warn("cached manifest payload is unusable, refetching",
			zap.String("repository_id", req.RepositoryID))
	}

	repo, err := uc.Repos.GetByID(ctx, req.RepositoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("repository %s: %w", req.RepositoryID, domain.ErrNotFound)
		}
		return nil, err
	}

	if err := uc.Repos.UpdateStatus(ctx, repo.ID, domain.RepositoryStatusUpdate{
		Status: domain.SyncStatusInProgress,
	}); err != nil {
		return nil, err
	}

	if !domain.IsTrustedManifestURL(repo.URL, uc.TrustedHost) {
		return nil, uc.fail(ctx, repo.ID,
			fmt.Errorf("repository url is not allowed: expected https://%s/..., fix the repository URL and retry", uc.trustedHost()))
	}

	fetchCtx, cancel := context.WithTimeout(ctx, uc.fetchTimeout())
	defer cancel()
	payload, err := uc.Fetcher.Fetch(fetchCtx, repo.URL)
	if err != nil {
		return nil, uc.fail(ctx, repo.ID, err)
	}

	entries, err := parseManifest(payload)
	if err != nil {
		return nil, uc.fail(ctx, repo.ID, err)
	}

	if err := uc.Cache.Upsert(ctx, domain.ManifestCacheEntry{
		RepositoryID: repo.ID,
		Payload:      payload,
		CachedAt:     now,
		ExpiresAt:    now.Add(uc.cacheTTL()),
	}); err != nil {
		// A cache miss next run is the only consequence; the fetched data
		// is still reconciled.
		uc.log().Warn("manifest cache write failed",
			zap.String("repository_id", repo.ID), zap.Error(err))
	}

	result := uc.reconcile(ctx, repo.ID, entries)
	uc.finalize(ctx, repo.ID, result, true)
	return result, nil
}

// reconcile upserts every entry into the catalog. One bad entry never
// aborts the batch: invalid and failed entries are counted and the loop
// moves on.
func (uc *SyncRepository) reconcile(ctx context.Context, repositoryID string, entries []domain.ManifestEntry) *SyncResult {
	result := &SyncResult{Success: true}
	for _, entry := range entries {
		if !entry.Valid() {
			result.ErrorCount++
			uc.log().Warn("manifest entry missing id or name, skipped",
				zap.String("repository_id", repositoryID))
			continue
		}
		if denied := uc.denied(ctx, repositoryID, entry); denied {
			result.ErrorCount++
			continue
		}
		if err := uc.upsertApp(ctx, repositoryID, entry); err != nil {
			result.ErrorCount++
			uc.log().Warn("catalog app write failed",
				zap.String("repository_id", repositoryID),
				zap.String("app_id", entry.ID), zap.Error(err))
			continue
		}
		result.SuccessCount++
	}

	if result.ErrorCount == 0 {
		result.Message = fmt.Sprintf("Synced %d apps", result.SuccessCount)
	} else {
		result.Message = fmt.Sprintf("Synced %d apps, %d failed", result.SuccessCount, result.ErrorCount)
	}
	return result
}

func (uc *SyncRepository) upsertApp(ctx context.Context, repositoryID string, entry domain.ManifestEntry) error {
	app := domain.CatalogAppFromEntry(repositoryID, entry, uc.now())
	existing, err := uc.Apps.FindByAppID(ctx, repositoryID, entry.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uc.Apps.Insert(ctx, app)
		}
		return err
	}
	app.ID = existing.ID
	app.CreatedAt = existing.CreatedAt
	return uc.Apps.Update(ctx, app)
}

func (uc *SyncRepository) denied(ctx context.Context, repositoryID string, entry domain.ManifestEntry) bool {
	if uc.Policy == nil {
		return false
	}
	decision, err := uc.Policy.Evaluate(ctx, domain.AdmissionInput{
		RepositoryID: repositoryID,
		App:          entry,
	})
	if err != nil {
		uc.log().Warn("sync policy evaluation failed",
			zap.String("repository_id", repositoryID),
			zap.String("app_id", entry.ID), zap.Error(err))
		return true
	}
	if !decision.Allow {
		uc.log().Info("manifest entry denied by sync policy",
			zap.String("repository_id", repositoryID),
			zap.String("app_id", entry.ID),
			zap.Strings("reasons", decision.Reasons))
		return true
	}
	return false
}

// finalize records the run outcome on the repository row. Runs that went
// through the in_progress transition use the guarded update so a racing
// run's outcome is not overwritten; a lost guard is logged and dropped.
func (uc *SyncRepository) finalize(ctx context.Context, repositoryID string, result *SyncResult, guarded bool) {
	now := uc.now()
	upd := domain.RepositoryStatusUpdate{
		Status:       domain.SyncStatusCompleted,
		LastSyncedAt: &now,
	}
	if result.ErrorCount > 0 {
		msg := fmt.Sprintf("%d entries failed to sync", result.ErrorCount)
		upd.Status = domain.SyncStatusError
		upd.LastError = &msg
	}

	if !guarded {
		if err := uc.Repos.UpdateStatus(ctx, repositoryID, upd); err != nil {
			uc.log().Warn("repository status update failed",
				zap.String("repository_id", repositoryID), zap.Error(err))
		}
		return
	}
	applied, err := uc.Repos.UpdateStatusFrom(ctx, repositoryID, domain.SyncStatusInProgress, upd)
	if err != nil {
		uc.log().Warn("repository status update failed",
			zap.String("repository_id", repositoryID), zap.Error(err))
		return
	}
	if !applied {
		uc.log().Info("repository status changed by a concurrent sync, outcome not recorded",
			zap.String("repository_id", repositoryID))
	}
}

// fail persists a fatal-stage failure onto the repository and returns it.
func (uc *SyncRepository) fail(ctx context.Context, repositoryID string, cause error) error {
	msg := cause.Error()
	if _, err := uc.Repos.UpdateStatusFrom(ctx, repositoryID, domain.SyncStatusInProgress, domain.RepositoryStatusUpdate{
		Status:    domain.SyncStatusError,
		LastError: &msg,
	}); err != nil {
		uc.log().Warn("repository status update failed",
			zap.String("repository_id", repositoryID), zap.Error(err))
	}
	uc.log().Error("repository sync failed",
		zap.String("repository_id", repositoryID), zap.Error(cause))
	return cause
}

// parseManifest decodes the raw payload and resolves it into the canonical
// entry list.
func parseManifest(payload []byte) ([]domain.ManifestEntry, error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, domain.ErrInvalidManifest
	}
	return domain.ResolveManifest(data)
}

func (uc *SyncRepository) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now().UTC()
}

func (uc *SyncRepository) log() *zap.Logger {
	if uc.Log != nil {
		return uc.Log
	}
	return zap.NewNop()
}

func (uc *SyncRepository) trustedHost() string {
	if uc.TrustedHost != "" {
		return uc.TrustedHost
	}
	return domain.DefaultTrustedManifestHost
}

func (uc *SyncRepository) fetchTimeout() time.Duration {
	if uc.FetchTimeout > 0 {
		return uc.FetchTimeout
	}
	return 10 * time.Second
}

func (uc *SyncRepository) cacheTTL() time.Duration {
	if uc.CacheTTL > 0 {
		return uc.CacheTTL
	}
	return 24 * time.Hour
}
