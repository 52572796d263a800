package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/afroash/pool-monitor/internal/models"
)

// Fetcher retrieves the current reading from the server
type Fetcher interface {
	// FetchCurrent returns the current reading, or nil if the server has
	// nothing ingested yet
	FetchCurrent(ctx context.Context) (*models.Reading, error)
}

// HTTPFetcher fetches the current reading from the /read endpoint
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given read URL
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchCurrent performs a single GET against the read endpoint.
// Context cancellation surfaces as a context error, which the poller
// treats as a dropped poll rather than a failure.
func (f *HTTPFetcher) FetchCurrent(ctx context.Context) (*models.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, f.url)
	}

	var body models.ReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Empty object means no reading has ever been ingested
	if body.Temperature == nil || body.Time == nil {
		return nil, nil
	}

	return &models.Reading{
		Temperature: *body.Temperature,
		Timestamp:   *body.Time,
	}, nil
}
