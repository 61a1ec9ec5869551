// Package metrics exposes Prometheus instruments for selector resolution,
// registry memoization, catalog reloads and the HTTP API.
//
// All helper methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for attrsel.
type Metrics struct {
	// Selector executions by result ("ok", "error")
	Selections *prometheus.CounterVec

	// Duration of a full selector execution
	SelectLatency prometheus.Histogram

	// Number of descriptors returned per successful selection
	SelectedDescriptors prometheus.Histogram

	// Provider memo cache lookups by result ("hit", "miss")
	RegistryLookups *prometheus.CounterVec

	// Registries built by the provider
	RegistriesCreated prometheus.Counter

	// Catalog reloads by result
	CatalogReloads *prometheus.CounterVec

	// HTTP requests by route pattern and status code
	HTTPRequests *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates a Metrics instance registered on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

// NewWith registers all instruments on reg and serves them from gatherer.
func NewWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Selections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attrsel_selections_total",
			Help: "Total selector executions by result",
		}, []string{"result"}),

		SelectLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "attrsel_select_duration_seconds",
			Help:    "Duration of selector execution against a registry tree",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
		}),

		SelectedDescriptors: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "attrsel_selected_descriptors",
			Help:    "Descriptors returned per successful selection",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),

		RegistryLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attrsel_registry_cache_lookups_total",
			Help: "Registry provider memo cache lookups by result",
		}, []string{"result"}),

		RegistriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "attrsel_registries_created_total",
			Help: "Registries built and populated by the provider",
		}),

		CatalogReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attrsel_catalog_reloads_total",
			Help: "Catalog reloads by result",
		}, []string{"result"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attrsel_http_requests_total",
			Help: "HTTP API requests by route and status code",
		}, []string{"route", "code"}),

		gatherer: gatherer,
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveSelection records one selector execution.
func (m *Metrics) ObserveSelection(d time.Duration, selected int, err error) {
	if m == nil {
		return
	}
	m.Selections.WithLabelValues(result(err)).Inc()
	m.SelectLatency.Observe(d.Seconds())
	if err == nil {
		m.SelectedDescriptors.Observe(float64(selected))
	}
}

// IncrementRegistryLookup records a provider cache hit or miss.
func (m *Metrics) IncrementRegistryLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.RegistryLookups.WithLabelValues("hit").Inc()
		return
	}
	m.RegistryLookups.WithLabelValues("miss").Inc()
}

// IncrementRegistriesCreated records a newly populated registry.
func (m *Metrics) IncrementRegistriesCreated() {
	if m != nil {
		m.RegistriesCreated.Inc()
	}
}

// IncrementCatalogReload records a catalog reload outcome.
func (m *Metrics) IncrementCatalogReload(err error) {
	if m != nil {
		m.CatalogReloads.WithLabelValues(result(err)).Inc()
	}
}

// IncrementHTTPRequest records a served request.
func (m *Metrics) IncrementHTTPRequest(route string, code int) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	}
}

// Handler serves the registered instruments in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
