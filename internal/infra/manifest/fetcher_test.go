package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcher_Success(t *testing.T) {
	var gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`[{"id": "a", "name": "A"}]`))
	}))
	defer srv.Close()

	f := NewFetcher("hub-test/1.0", srv.Client())
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(string(body), `"id": "a"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}
	if gotUA != "hub-test/1.0" {
		t.Fatalf("expected custom user agent, got %q", gotUA)
	}
}

func TestFetcher_HTTPErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		f := NewFetcher("", srv.Client())
		_, err := f.Fetch(context.Background(), srv.URL)
		srv.Close()
		if err == nil {
			t.Fatalf("expected error for status %d", status)
		}
		if !strings.Contains(err.Error(), "HTTP") || !strings.Contains(err.Error(), "check the URL") {
			t.Fatalf("status error should name the HTTP failure: %v", err)
		}
		if strings.Contains(err.Error(), "timed out") {
			t.Fatalf("status error must not read as a timeout: %v", err)
		}
	}
}

func TestFetcher_RejectsNonJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := NewFetcher("", srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "content type") {
		t.Fatalf("expected content type error, got %v", err)
	}
}

func TestFetcher_AcceptsJSONVariants(t *testing.T) {
	for _, contentType := range []string{"application/json", "text/json", "application/vnd.api+json"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			w.Write([]byte(`[]`))
		}))
		f := NewFetcher("", srv.Client())
		_, err := f.Fetch(context.Background(), srv.URL)
		srv.Close()
		if err != nil {
			t.Fatalf("content type %q should be accepted: %v", contentType, err)
		}
	}
}

func TestFetcher_TimeoutMessage(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewFetcher("", srv.Client())
	_, err := f.Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("timeout must produce the dedicated message, got %v", err)
	}
	if strings.Contains(err.Error(), "HTTP") {
		t.Fatalf("timeout message must not mention an HTTP status: %v", err)
	}
}

func TestFetcher_RejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		big := strings.Repeat("x", maxManifestBytes+10)
		w.Write([]byte(`"` + big + `"`))
	}))
	defer srv.Close()

	f := NewFetcher("", srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", err)
	}
}
