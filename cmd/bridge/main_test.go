package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-shopify-bridge/internal/application"
	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/infrastructure/metrics"
	"erp-shopify-bridge/internal/ports"
)

// stubERP answers the lookups the pricing path performs; anything else
// panics through the embedded nil interface.
type stubERP struct {
	ports.ERPClient
}

func (stubERP) FetchPartsByNumbers(_ context.Context, partNumbers []string) ([]domain.CatalogItem, error) {
	return []domain.CatalogItem{{
		ID:            "p1",
		PartNumber:    partNumbers[0],
		StandardPrice: decimal.RequireFromString("199.00"),
	}}, nil
}

func (stubERP) FetchCustomerPartPrice(context.Context, string, string) (*domain.PriceRow, error) {
	return nil, nil
}

func (stubERP) FetchCustomerPriceListID(context.Context, string) (string, error) {
	return "", nil
}

type failingCache struct {
	puts int
}

func (c *failingCache) Get(context.Context, string, string) (*domain.PriceQuote, error) {
	return nil, errors.New("connection refused")
}

func (c *failingCache) Put(context.Context, string, string, domain.PriceQuote, time.Duration) error {
	c.puts++
	return nil
}

func pricingTestRouter(cache ports.QuoteCache) http.Handler {
	resolver := application.NewPriceResolver(stubERP{}, application.PriceResolverConfig{}, zerolog.Nop())
	collector := metrics.NewCollector(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Get("/api/v1/pricing/{partNumber}", pricingHandler(resolver, cache, collector, time.Minute, zerolog.Nop()))
	return r
}

func TestPricingHandlerServesQuoteWhenCacheReadFails(t *testing.T) {
	// A broken cache degrades to a live resolution, never to an error
	// response.
	cache := &failingCache{}
	router := pricingTestRouter(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/CH-1", nil)
	req.Header.Set("X-Customer-ID", "c1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var quote domain.PriceQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, domain.TierStandard, quote.Tier)
	require.NotNil(t, quote.Price)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("199.00")))
	assert.Equal(t, 1, cache.puts)
}

func TestPricingHandlerRequiresCustomerHeader(t *testing.T) {
	router := pricingTestRouter(&failingCache{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/CH-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
