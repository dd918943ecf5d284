package domain

import (
	"strings"
	"testing"
)

func TestIsTrustedManifestURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"github raw https", "https://raw.githubusercontent.com/acme/apps/main/manifest.json", true},
		{"root path", "https://raw.githubusercontent.com/", true},
		{"query string allowed", "https://raw.githubusercontent.com/a/b/m.json?token=x", true},
		{"http scheme", "http://raw.githubusercontent.com/a/b/m.json", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"data scheme", "data:application/json,[]", false},
		{"other host", "https://gist.githubusercontent.com/a/b/m.json", false},
		{"subdomain prefix", "https://raw.githubusercontent.com.evil.com/m.json", false},
		{"host suffix", "https://evil-raw.githubusercontent.com/m.json", false},
		{"path traversal", "https://raw.githubusercontent.com/a/../secrets", false},
		{"empty", "", false},
		{"garbage", "not a url at all ://", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTrustedManifestURL(tc.url, ""); got != tc.want {
				t.Fatalf("IsTrustedManifestURL(%q) = %v, want %v", tc.url, got, tc.want)
			}
		})
	}
}

func TestIsTrustedManifestURL_CustomHost(t *testing.T) {
	if !IsTrustedManifestURL("https://manifests.internal/apps.json", "manifests.internal") {
		t.Fatal("configured host must be accepted")
	}
	if IsTrustedManifestURL("https://raw.githubusercontent.com/a/b/m.json", "manifests.internal") {
		t.Fatal("default host must be rejected once another host is configured")
	}
}

func TestIsValidRepositoryName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"two chars", "ab", false},
		{"three chars", "abc", true},
		{"hundred chars", strings.Repeat("a", 100), true},
		{"hundred and one chars", strings.Repeat("a", 101), false},
		{"whitespace only", "   ", false},
		{"padded short name", "  ab  ", false},
		{"padded valid name", "  abc  ", true},
		{"cjk runes counted once", "应用商店", true},
		{"emoji", "app 🚀 store", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidRepositoryName(tc.input); got != tc.want {
				t.Fatalf("IsValidRepositoryName(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeForStorage(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  plain  ", "plain"},
		{"<script>alert(1)</script>", "scriptalert(1)/script"},
		{"a < b > c", "a  b  c"},
		{"名前 🚀", "名前 🚀"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := SanitizeForStorage(tc.input); got != tc.want {
			t.Fatalf("SanitizeForStorage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsValidManifestShape(t *testing.T) {
	tests := []struct {
		name string
		data any
		want bool
	}{
		{"list of descriptors", []any{map[string]any{"id": "a", "name": "A"}}, true},
		{"list with bad element", []any{map[string]any{"id": "a", "name": "A"}, map[string]any{"id": "b"}}, false},
		{"empty list", []any{}, false},
		{"apps wrapper", map[string]any{"apps": []any{map[string]any{"id": "a", "name": "A"}}}, true},
		{"apps wrapper empty", map[string]any{"apps": []any{}}, false},
		{"single descriptor", map[string]any{"id": "a", "name": "A"}, true},
		{"descriptor missing name", map[string]any{"id": "a"}, false},
		{"non-string id", map[string]any{"id": 7, "name": "A"}, false},
		{"scalar", 42, false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidManifestShape(tc.data); got != tc.want {
				t.Fatalf("IsValidManifestShape = %v, want %v", got, tc.want)
			}
		})
	}
}
