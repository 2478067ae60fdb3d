package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeberg.org/snonux/lingocard/internal"
	"codeberg.org/snonux/lingocard/internal/lookup"
)

const maxBodySize = 2 << 20

var userAgent = "lingocard/" + internal.Version

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// get performs a GET request and returns the body of a 200 response.
// A 404 is reported as lookup.ErrNotFound.
func get(ctx context.Context, client *http.Client, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, lookup.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
