package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stock-analyzer/internal/contracts"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Provider: config.ProviderConfig{
			BaseURL:   srv.URL,
			APIKey:    "test-key",
			RateLimit: 100,
			Burst:     10,
			Timeout:   5 * time.Second,
		},
	}

	return NewClient(cfg, logger.NewNop())
}

func TestFetchDecodesFundamentals(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/fundamentals/ACME", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"symbol": "ACME",
			"name": "Acme Corp",
			"sector": "Industrials",
			"price": 50.0,
			"market_cap": 1000000000,
			"roe": 0.18,
			"statements": [
				{"fiscal_year": 2025, "revenue": 500000000},
				{"fiscal_year": 2024, "revenue": 450000000}
			]
		}`))
	})

	f, err := c.Fetch(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "ACME", f.Symbol)
	assert.Equal(t, "Acme Corp", f.Name)
	require.NotNil(t, f.Price)
	assert.Equal(t, 50.0, *f.Price)
	require.NotNil(t, f.ROE)
	assert.Equal(t, 0.18, *f.ROE)
	require.Len(t, f.Statements, 2)
	assert.Equal(t, 2025, f.Statements[0].FiscalYear)
}

func TestFetchFillsMissingSymbol(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price": 10.0}`))
	})

	f, err := c.Fetch(context.Background(), "NOSYM")
	require.NoError(t, err)
	assert.Equal(t, "NOSYM", f.Symbol)
}

func TestFetchNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Fetch(context.Background(), "GHOST")
	require.Error(t, err)

	var fe *contracts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "GHOST", fe.Symbol)
}

func TestFetchProviderError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "symbol delisted"}`))
	})

	_, err := c.Fetch(context.Background(), "GONE")
	require.Error(t, err)

	var fe *contracts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Err.Error(), "symbol delisted")
}

func TestFetchBadJSON(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := c.Fetch(context.Background(), "ACME")

	var fe *contracts.FetchError
	require.ErrorAs(t, err, &fe)
}

func TestFetchContextCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, "ACME")

	var fe *contracts.FetchError
	require.ErrorAs(t, err, &fe)
}
