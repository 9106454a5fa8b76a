// Package metrics exposes roster activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/aanand-mishra/students-roster/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation names used as the "op" label.
const (
	OpSearch         = "search"
	OpSelect         = "select"
	OpClearSelection = "clear_selection"
	OpAdd            = "add"
	OpEdit           = "edit"
	OpRemove         = "remove"
)

// Metrics holds the roster collectors and the registry they live in.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

// New registers the operation counter and the record gauges for st.
// The gauges read st on every scrape.
func New(st *store.Store) *Metrics {
	reg := prometheus.NewRegistry()

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "operations_total",
		Help:      "Store operations issued by the presentation layer.",
	}, []string{"op"})

	reg.MustRegister(
		ops,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "roster",
			Name:      "records",
			Help:      "Records in the canonical collection.",
		}, func() float64 { return float64(len(st.All())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "roster",
			Name:      "filtered_records",
			Help:      "Records matching the active search term.",
		}, func() float64 { return float64(len(st.Filtered())) }),
	)

	return &Metrics{registry: reg, operations: ops}
}

// Observe counts one store operation. A nil *Metrics ignores the call.
func (m *Metrics) Observe(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
