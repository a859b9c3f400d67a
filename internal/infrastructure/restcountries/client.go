package restcountries

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

const Source = "restcountries.com"

// Client fetches the country directory. Every failure mode (transport error,
// timeout, non-2xx) comes back as *domain.UpstreamError tagged with Source.
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

func (c *Client) FetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
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

	var countries []domain.RawCountry
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, &domain.UpstreamError{Source: Source, Reason: "failed to parse response: " + err.Error()}
	}

	return countries, nil
}
