package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/httputil"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// Client fetches fundamentals from the HTTP JSON provider. All provider
// calls go through this client, which applies the configured rate limit
// so a run never exceeds the provider's request budget regardless of the
// engine's worker count.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
	apiKey  string
}

// payload is the provider response for one symbol. It mirrors
// contracts.Fundamentals field for field, so decoding is direct.
type payload struct {
	contracts.Fundamentals

	// Error is set instead of data when the provider has nothing
	// for the symbol.
	Error string `json:"error,omitempty"`
}

// NewClient creates a new provider client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	limiter := rate.NewLimiter(rate.Limit(cfg.Provider.RateLimit), cfg.Provider.Burst)

	return &Client{
		http:    httputil.New(log, cfg.Provider.Timeout).WithRateLimiter(limiter),
		logger:  log,
		baseURL: cfg.Provider.BaseURL,
		apiKey:  cfg.Provider.APIKey,
	}
}

// Fetch implements contracts.FundamentalsProvider. A symbol the provider
// does not know, or knows without a market price, yields a *FetchError;
// transport failures are wrapped in one too, so the engine treats every
// provider problem as a recoverable per-instrument exclusion.
func (c *Client) Fetch(ctx context.Context, symbol string) (*contracts.Fundamentals, error) {
	reqURL := fmt.Sprintf("%s/v1/fundamentals/%s", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &contracts.FetchError{Symbol: symbol, Err: err}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &contracts.FetchError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &contracts.FetchError{
			Symbol: symbol,
			Err:    fmt.Errorf("provider has no data for symbol"),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &contracts.FetchError{
			Symbol: symbol,
			Err:    fmt.Errorf("provider returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contracts.FetchError{Symbol: symbol, Err: fmt.Errorf("read response: %w", err)}
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &contracts.FetchError{Symbol: symbol, Err: fmt.Errorf("decode response: %w", err)}
	}
	if p.Error != "" {
		return nil, &contracts.FetchError{Symbol: symbol, Err: fmt.Errorf("provider error: %s", p.Error)}
	}

	f := p.Fundamentals
	if f.Symbol == "" {
		f.Symbol = symbol
	}

	return &f, nil
}
