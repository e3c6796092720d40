// Package metrics registers the service's Prometheus collectors and exposes
// the scrape handler mounted by the router.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts /bundle-adjust requests by final outcome
	// (adjusted, noop, invalid_input, order_not_found, location_unresolved,
	// malformed_bundle_spec, upstream_unavailable, upstream_protocol_error,
	// validation_rejected).
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bundle_adjust_requests_total",
		Help: "Bundle adjustment requests by outcome.",
	}, []string{"outcome"})

	// DeltasSubmitted counts individual inventory deltas sent upstream.
	DeltasSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bundle_adjust_deltas_submitted_total",
		Help: "Inventory deltas included in submitted adjustment batches.",
	})

	// ComponentsSkipped counts components dropped because their variant
	// could not be resolved to an inventory item.
	ComponentsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bundle_adjust_components_skipped_total",
		Help: "Bundle components skipped due to failed variant resolution.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
