// Package listings retrieves raw market listings for a search seed. The live
// client is a thin read-only HTTP wrapper; when live retrieval is disabled or
// fails, the deterministic placeholder source keeps the pipeline exercisable.
package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/seed"
)

// Source produces raw listing rows for a seed. Rows are untyped maps on
// purpose: upstream schemas drift, and coercion is the signal extractor's job.
type Source interface {
	Fetch(ctx context.Context, s seed.Seed, limit int) ([]map[string]interface{}, error)
}

type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ Source = &Client{}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchResponse struct {
	Listings []map[string]interface{} `json:"listings"`
}

// Fetch runs one bounded search. There is no retry: a failed fetch is the
// caller's cue to fall back to the placeholder source.
func (c *Client) Fetch(ctx context.Context, s seed.Seed, limit int) ([]map[string]interface{}, error) {
	q := url.Values{}
	setIf := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	setIf("make", s.Make)
	setIf("model", s.Model)
	setIf("trim", s.Trim)
	setIf("generation", s.Generation)
	if s.YearMin > 0 {
		q.Set("year_min", strconv.Itoa(s.YearMin))
	}
	if s.YearMax > 0 {
		q.Set("year_max", strconv.Itoa(s.YearMax))
	}
	if s.BudgetMaxUSD > 0 {
		q.Set("price_max", strconv.Itoa(s.BudgetMaxUSD))
	}
	if s.Transmission == seed.TransmissionManual {
		q.Set("transmission", "manual")
	}
	q.Set("rows", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/listings?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build listings request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("listings API status %d: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode listings response: %w", err)
	}
	if len(sr.Listings) > limit {
		sr.Listings = sr.Listings[:limit]
	}
	return sr.Listings, nil
}
