package domain

import "encoding/json"

// ManifestEntry is one application description inside a manifest payload.
// Only ID and Name are required; everything else is optional.
type ManifestEntry struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Icon         string          `json:"icon,omitempty"`
	Category     string          `json:"category,omitempty"`
	Version      string          `json:"version,omitempty"`
	Author       string          `json:"author,omitempty"`
	Website      string          `json:"website,omitempty"`
	Docs         string          `json:"docs,omitempty"`
	SourceRepo   string          `json:"source_repo,omitempty"`
	Image        string          `json:"image,omitempty"`
	Compose      string          `json:"compose,omitempty"`
	EnvVars      []EnvVar        `json:"env_vars,omitempty"`
	Ports        []PortMapping   `json:"ports,omitempty"`
	Volumes      []VolumeMapping `json:"volumes,omitempty"`
	Dependencies []string        `json:"dependencies,omitempty"`
}

// Valid reports whether the entry carries the two required fields. Invalid
// entries are skipped during reconciliation, never fatal to the run.
func (e ManifestEntry) Valid() bool {
	return e.ID != "" && e.Name != ""
}

type EnvVar struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     string `json:"default,omitempty"`
}

type PortMapping struct {
	Container int    `json:"container"`
	Host      int    `json:"host,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
}

type VolumeMapping struct {
	Container string `json:"container"`
	Host      string `json:"host,omitempty"`
}

// ResolveManifest normalizes the three accepted manifest shapes into one
// canonical entry list:
//
//   - a bare list of app descriptors
//   - an object with an `apps` list
//   - a single object that is itself a valid descriptor
//
// List elements are decoded permissively: an element missing id or name
// still yields an entry so the reconciliation loop can count it as a
// per-entry error instead of rejecting the whole document.
func ResolveManifest(data any) ([]ManifestEntry, error) {
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return nil, ErrInvalidManifest
		}
		entries := make([]ManifestEntry, 0, len(v))
		for _, item := range v {
			entries = append(entries, decodeEntry(item))
		}
		return entries, nil
	case map[string]any:
		if apps, ok := v["apps"].([]any); ok {
			return ResolveManifest(apps)
		}
		entry := decodeEntry(v)
		if !entry.Valid() {
			return nil, ErrInvalidManifest
		}
		return []ManifestEntry{entry}, nil
	default:
		return nil, ErrInvalidManifest
	}
}

// decodeEntry round-trips a generic value through JSON into a typed entry.
// Non-object values and malformed optional fields decode to zero values.
func decodeEntry(item any) ManifestEntry {
	var entry ManifestEntry
	raw, err := json.Marshal(item)
	if err != nil {
		return entry
	}
	_ = json.Unmarshal(raw, &entry)
	return entry
}
