package oddsfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// Client fetches best-price quotes keyed by selection from the odds service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an odds service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchOdds requests quotes for a batch of selections. Keys absent from the
// returned map resolved with no market.
func (c *Client) FetchOdds(ctx context.Context, selections []models.Selection) (map[string]models.LineOdds, error) {
	if len(selections) == 0 {
		return map[string]models.LineOdds{}, nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"selections": selections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selections: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/odds/selections", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create odds request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("odds service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds service returned %d", resp.StatusCode)
	}

	var odds models.OddsResponse
	if err := json.NewDecoder(resp.Body).Decode(&odds); err != nil {
		return nil, fmt.Errorf("failed to parse odds response: %w", err)
	}

	if odds.Odds == nil {
		odds.Odds = map[string]models.LineOdds{}
	}
	return odds.Odds, nil
}
