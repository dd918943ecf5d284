package domain

import "time"

type InstallState string

const (
	InstallStateStopped InstallState = "stopped"
	InstallStateRunning InstallState = "running"
)

// InstalledApp tracks a catalog app the user has installed. The dashboard
// only simulates lifecycle transitions; this is state bookkeeping, not
// orchestration.
type InstalledApp struct {
	ID           string
	CatalogAppID string
	RepositoryID string
	AppID        string
	Name         string
	State        InstallState
	InstalledAt  time.Time
	UpdatedAt    time.Time
}
