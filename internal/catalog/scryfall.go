package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"artistconnection/internal/config"
)

// ScryfallClient fetches the canonical artist-name catalog.
type ScryfallClient struct {
	client   *http.Client
	url      string
	maxBytes int64
}

func NewScryfallClient(cfg config.Feeds) *ScryfallClient {
	return &ScryfallClient{
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		url:      cfg.ScryfallURL,
		maxBytes: cfg.MaxBodyBytes,
	}
}

type catalogResponse struct {
	Object      string   `json:"object"`
	TotalValues int      `json:"total_values"`
	Data        []string `json:"data"`
}

func (c *ScryfallClient) ArtistNames(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scryfall request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scryfall catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scryfall catalog returned status %d", resp.StatusCode)
	}

	var catalog catalogResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBytes)).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode scryfall catalog: %w", err)
	}
	return catalog.Data, nil
}
