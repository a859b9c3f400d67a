package openerapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

const Source = "open.er-api.com"

// Client fetches USD exchange rates. Mirrors the restcountries client: any
// failure surfaces as *domain.UpstreamError tagged with Source.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) FetchRates(ctx context.Context) (*domain.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &domain.UpstreamError{Source: Source, Reason: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Source: Source, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{Source: Source, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Source: Source, Reason: err.Error()}
	}

	var table domain.RateTable
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, &domain.UpstreamError{Source: Source, Reason: "failed to parse response: " + err.Error()}
	}
	if table.Rates == nil {
		return nil, &domain.UpstreamError{Source: Source, Reason: "response contains no rates"}
	}

	return &table, nil
}
