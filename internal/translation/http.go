package translation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeberg.org/snonux/lingocard/internal"
	"golang.org/x/text/language"
)

var userAgent = "lingocard/" + internal.Version

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// code returns the bare language code of tag, e.g. "zh" for zh-Hans.
func code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
