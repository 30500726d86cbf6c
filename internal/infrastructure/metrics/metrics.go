package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"erp-shopify-bridge/internal/domain"
)

// Collector holds the bridge's Prometheus instruments.
type Collector struct {
	syncOutcomes *prometheus.CounterVec
	priceQuotes  *prometheus.CounterVec
	erpRequests  *prometheus.HistogramVec
}

// NewCollector registers the bridge metrics on the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		syncOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_sync_outcomes_total",
			Help: "Per-record reconciliation outcomes by entity and outcome.",
		}, []string{"entity", "outcome"}),
		priceQuotes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_price_quotes_total",
			Help: "Resolved price quotes by tier.",
		}, []string{"tier"}),
		erpRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bridge_erp_request_seconds",
			Help:    "ERP HTTP request duration by resource.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
	}
}

// ObserveOutcome records one reconciliation outcome.
func (c *Collector) ObserveOutcome(entity string, outcome domain.SyncOutcome) {
	c.syncOutcomes.WithLabelValues(entity, string(outcome)).Inc()
}

// ObserveQuote records one resolved price quote.
func (c *Collector) ObserveQuote(tier domain.PriceTier) {
	c.priceQuotes.WithLabelValues(string(tier)).Inc()
}

// ObserveERPRequest records one ERP HTTP call. Matches the signature of
// the ERP client's request observer hook.
func (c *Collector) ObserveERPRequest(resource string, d time.Duration) {
	c.erpRequests.WithLabelValues(resource).Observe(d.Seconds())
}
