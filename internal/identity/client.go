// Package identity integrates the external identity provider: fetching a
// principal's session claims and caching them across requests.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/looplj/orghub/internal/objects"
)

type Config struct {
	// BaseURL of the identity provider API.
	BaseURL string `conf:"base_url" yaml:"base_url" json:"base_url" env:"BASE_URL"`

	// APIKey authenticates this service against the provider.
	APIKey string `conf:"api_key" yaml:"api_key" json:"api_key" env:"API_KEY"`

	Timeout time.Duration `conf:"timeout" yaml:"timeout" json:"timeout"`

	Cache CacheConfig `conf:"cache" yaml:"cache" json:"cache"`
}

// Client fetches session claims from the identity provider.
type Client interface {
	FetchClaims(ctx context.Context, workosUserID string) (*objects.Claims, error)
}

// HTTPClient is the provider-backed Client. One instance is constructed at
// startup and injected everywhere a client is needed; nothing else may
// construct provider connections.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchClaims retrieves the provider-asserted claims for a user: id, email,
// base permissions and organization memberships.
func (c *HTTPClient) FetchClaims(ctx context.Context, workosUserID string) (*objects.Claims, error) {
	endpoint := fmt.Sprintf("%s/users/%s/claims", c.baseURL, url.PathEscape(workosUserID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build claims request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claims for %q: %w", workosUserID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d for %q", resp.StatusCode, workosUserID)
	}

	var claims objects.Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode claims payload: %w", err)
	}

	return &claims, nil
}
