package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// ProfileQuery are the server-side filter parameters for a profile fetch.
type ProfileQuery struct {
	Date     string
	Market   string
	Search   string
	Sort     string
	SortDir  string
	Limit    int
	PlayerID int
}

// Client fetches paginated hit-rate profiles from the stats service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a stats service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchProfiles requests one page of profile rows. The response count is the
// server-side total under the query's filters, independent of limit.
func (c *Client) FetchProfiles(ctx context.Context, q ProfileQuery) (*models.ProfileResponse, error) {
	params := url.Values{}
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	if q.Market != "" {
		params.Set("market", q.Market)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
		params.Set("sort_dir", q.SortDir)
	}
	if q.PlayerID > 0 {
		params.Set("player_id", strconv.Itoa(q.PlayerID))
	}
	params.Set("limit", strconv.Itoa(q.Limit))

	endpoint := fmt.Sprintf("%s/api/v1/profiles?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profiles request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats service returned %d", resp.StatusCode)
	}

	var profiles models.ProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles response: %w", err)
	}

	return &profiles, nil
}
