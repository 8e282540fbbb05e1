package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/dribble/internal/adapters/repository"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// FetchSummaries reads the per-video listing from a running service.
func FetchSummaries(ctx context.Context, baseURL string, timeout time.Duration) ([]repository.Summary, error) {
	resp, err := newHTTPClient(timeout).Get(ctx, baseURL+"/videos")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("listing videos failed with status %d: %s", resp.StatusCode, body)
	}

	var out []repository.Summary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return out, nil
}
