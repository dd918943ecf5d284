package domain

import "time"

// CatalogApp is the persisted, reconciled representation of a manifest
// entry, scoped to one repository. Identity is the (RepositoryID, AppID)
// pair; AppID is the external identifier from the manifest.
type CatalogApp struct {
	ID           string
	RepositoryID string
	AppID        string
	Name         string
	Description  *string
	Icon         *string
	Category     *string
	Version      *string
	Author       *string
	Website      *string
	Docs         *string
	SourceRepo   *string
	Image        *string
	Compose      *string
	EnvVars      []EnvVar
	Ports        []PortMapping
	Volumes      []VolumeMapping
	Dependencies []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CatalogAppFromEntry maps a manifest entry onto the persisted shape.
// Absent optional fields become nil, list fields become empty lists.
func CatalogAppFromEntry(repositoryID string, entry ManifestEntry, now time.Time) CatalogApp {
	app := CatalogApp{
		RepositoryID: repositoryID,
		AppID:        entry.ID,
		Name:         entry.Name,
		Description:  optional(entry.Description),
		Icon:         optional(entry.Icon),
		Category:     optional(entry.Category),
		Version:      optional(entry.Version),
		Author:       optional(entry.Author),
		Website:      optional(entry.Website),
		Docs:         optional(entry.Docs),
		SourceRepo:   optional(entry.SourceRepo),
		Image:        optional(entry.Image),
		Compose:      optional(entry.Compose),
		EnvVars:      entry.EnvVars,
		Ports:        entry.Ports,
		Volumes:      entry.Volumes,
		Dependencies: entry.Dependencies,
		UpdatedAt:    now,
	}
	if app.EnvVars == nil {
		app.EnvVars = []EnvVar{}
	}
	if app.Ports == nil {
		app.Ports = []PortMapping{}
	}
	if app.Volumes == nil {
		app.Volumes = []VolumeMapping{}
	}
	if app.Dependencies == nil {
		app.Dependencies = []string{}
	}
	return app
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
