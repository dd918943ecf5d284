package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

const maxManifestBytes = 4 * 1024 * 1024

// Fetcher retrieves manifest documents from the trusted raw-content host.
// Error text is user-facing: it ends up on the repository record and in
// the dashboard, so timeouts, HTTP failures and content-type mismatches
// each get a distinct, actionable message.
type Fetcher struct {
	userAgent string
	httpDo    func(*http.Request) (*http.Response, error)
}

func NewFetcher(userAgent string, httpClient *http.Client) *Fetcher {
	if userAgent == "" {
		userAgent = "autoserve-hub/1.0"
	}
	doer := http.DefaultClient.Do
	if httpClient != nil {
		doer = httpClient.Do
	}
	return &Fetcher{userAgent: userAgent, httpDo: doer}
}

// Fetch downloads the manifest body. The caller bounds the request with a
// context deadline; expiry cancels the in-flight request.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpDo(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, errors.New("manifest fetch timed out: the host did not respond in time")
		}
		return nil, fmt.Errorf("manifest fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("manifest fetch returned HTTP %d: check the URL is correct and public", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return nil, fmt.Errorf("manifest has unexpected content type %q, expected application/json", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes+1))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, errors.New("manifest fetch timed out: the host did not respond in time")
		}
		return nil, fmt.Errorf("manifest read failed: %w", err)
	}
	if len(body) > maxManifestBytes {
		return nil, fmt.Errorf("manifest exceeds %d bytes", maxManifestBytes)
	}
	return body, nil
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if mediaType == "application/json" || mediaType == "text/json" {
		return true
	}
	return strings.HasSuffix(mediaType, "+json")
}
