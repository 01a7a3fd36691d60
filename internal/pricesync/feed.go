package pricesync

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"artistconnection/internal/config"
)

const batchSize = 5000

// feedClient fetches large JSON price feeds with a hard timeout and a
// response-size cap.
type feedClient struct {
	client   *http.Client
	maxBytes int64
}

func newFeedClient(cfg config.Feeds) *feedClient {
	return &feedClient{
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		maxBytes: cfg.MaxBodyBytes,
	}
}

func (c *feedClient) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	return body, nil
}
