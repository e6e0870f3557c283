package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher downloads media attached to inbound messages.
type Fetcher struct {
	client   *http.Client
	user     string
	password string
}

// FetcherConfig represents the settings for a Fetcher.
type FetcherConfig struct {
	Timeout  time.Duration
	User     string
	Password string
}

// NewFetcher constructs a Fetcher. When a user is provided every request is
// sent with basic auth credentials.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		user:     cfg.User,
		password: cfg.Password,
	}
}

// Fetch starts the download of the media at the url. The caller is required
// to close the returned body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building media request: %w", err)
	}

	if f.user != "" {
		req.SetBasicAuth(f.user, f.password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching media: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("fetching media: unexpected status %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}
