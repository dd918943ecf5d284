package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultTrustedManifestHost is the raw-content host manifests are fetched
// from when no other host is configured.
const DefaultTrustedManifestHost = "raw.githubusercontent.com"

// IsTrustedManifestURL reports whether raw is an HTTPS URL whose hostname
// exactly equals trustedHost. Path traversal sequences are rejected along
// with any other scheme, host or malformed input.
func IsTrustedManifestURL(raw, trustedHost string) bool {
	if trustedHost == "" {
		trustedHost = DefaultTrustedManifestHost
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}
	if u.Hostname() != trustedHost {
		return false
	}
	if strings.Contains(u.Path, "..") {
		return false
	}
	return true
}

// IsValidRepositoryName reports whether the trimmed name is between 3 and
// 100 characters inclusive.
func IsValidRepositoryName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 3 && n <= 100
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeForStorage strips angle brackets and trims surrounding
// whitespace. Everything else, including non-ASCII text, passes through.
func SanitizeForStorage(text string) string {
	return strings.TrimSpace(angleBrackets.Replace(text))
}

// IsValidManifestShape reports whether data is one of the accepted manifest
// forms: a non-empty list of descriptors that all carry id and name, an
// object wrapping such a list under `apps`, or a single descriptor. It is a
// pure predicate over generic decoded JSON.
func IsValidManifestShape(data any) bool {
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return false
		}
		for _, item := range v {
			if !hasIDAndName(item) {
				return false
			}
		}
		return true
	case map[string]any:
		if apps, ok := v["apps"]; ok {
			return IsValidManifestShape(apps)
		}
		return hasIDAndName(v)
	default:
		return false
	}
}

func hasIDAndName(item any) bool {
	m, ok := item.(map[string]any)
	if !ok {
		return false
	}
	id, _ := m["id"].(string)
	name, _ := m["name"].(string)
	return id != "" && name != ""
}
