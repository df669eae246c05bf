// Package cdn uploads image bytes to a remote store. Uploads are best-effort:
// callers log failures and fall back to the locally stored copy, they never
// fail the request that produced the image.
package cdn

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// UploadTimeout bounds a single upload so a slow remote cannot leak request
// handlers.
const UploadTimeout = 10 * time.Second

// Client uploads objects to a CDN-style remote store over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the given base URL, or nil when baseURL is empty
// (CDN uploads disabled). A nil *Client is safe to call.
func New(baseURL string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: UploadTimeout},
	}
}

// Upload stores the bytes under name and returns the public URL of the
// uploaded object.
func (c *Client) Upload(ctx context.Context, name, mime string, data []byte) (string, error) {
	if c == nil {
		return "", fmt.Errorf("cdn not configured")
	}

	target := c.baseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mime)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("uploading %q: unexpected status %d", name, resp.StatusCode)
	}

	return target, nil
}
