package domain

import "time"

type SyncStatus string

const (
	SyncStatusPending    SyncStatus = "pending"
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusCompleted  SyncStatus = "completed"
	SyncStatusError      SyncStatus = "error"
)

// SourceTypeGithubRaw is the only manifest source kind currently supported:
// a JSON document served from the raw-content host over HTTPS.
const SourceTypeGithubRaw = "github-raw"

// Repository is a configured external source of an application manifest.
type Repository struct {
	ID           string
	Name         string
	Description  string
	URL          string
	SourceType   string
	Official     bool
	Enabled      bool
	SyncStatus   SyncStatus
	LastError    *string
	LastSyncedAt *time.Time
	CreatedAt    time.Time
}

// RepositoryStatusUpdate carries the sync bookkeeping fields mutated by a
// sync run. LastError is written as given (nil clears it); LastSyncedAt is
// only written when set.
type RepositoryStatusUpdate struct {
	Status       SyncStatus
	LastError    *string
	LastSyncedAt *time.Time
}

// ManifestCacheEntry is the time-boxed cached copy of a repository's last
// fetched manifest. At most one entry exists per repository.
type ManifestCacheEntry struct {
	RepositoryID string
	Payload      []byte
	CachedAt     time.Time
	ExpiresAt    time.Time
}

// Fresh reports whether the entry may still be served instead of a fetch.
func (e ManifestCacheEntry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
