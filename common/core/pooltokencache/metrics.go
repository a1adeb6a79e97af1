package pooltokencache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	entryPair  = "pair"
	entryPool  = "pool"
	entrySwap  = "swap"
	entryToken = "token"

	outcomeHit      = "hit"
	outcomeResolved = "resolved"
	outcomeNotFound = "not_found"
	outcomeError    = "error"

	operationEnrich = "get_swap_pair_and_pool"
	operationRemove = "get_any_remove_with_token_id"
)

// Metrics of the pool token cache. A nil *Metrics records nothing.
type Metrics struct {
	LookupsTotal       *prometheus.CounterVec
	UpstreamCallsTotal *prometheus.CounterVec
	PoolTokensIndexed  prometheus.Gauge
	DuplicatesTotal    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	return &Metrics{
		LookupsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool_token_cache",
			Name:      "lookups_total",
			Help:      "Pool token lookups by entry point and outcome.",
		}, []string{"entry", "outcome"}),
		UpstreamCallsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool_token_cache",
			Name:      "upstream_calls_total",
			Help:      "Subgraph calls made while resolving pool tokens.",
		}, []string{"operation", "outcome"}),
		PoolTokensIndexed: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool_token_cache",
			Name:      "pool_tokens",
			Help:      "Number of pool tokens held by the cache.",
		}),
		DuplicatesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool_token_cache",
			Name:      "duplicate_inserts_total",
			Help:      "Refused inserts of a pool token under an already indexed key.",
		}),
	}
}

func (m *Metrics) lookup(entry, outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(entry, outcome).Inc()
}

func (m *Metrics) upstreamCall(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = outcomeError
	}
	m.UpstreamCallsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) indexed(n int) {
	if m == nil {
		return
	}
	m.PoolTokensIndexed.Set(float64(n))
}

func (m *Metrics) duplicate() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}
