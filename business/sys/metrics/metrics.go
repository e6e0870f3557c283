// Package metrics maintains the prometheus counters exposed by the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bioestate"

var (
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "requests_total", Help: "HTTP requests handled"},
		[]string{"method", "status"},
	)
	Errors = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "errors_total", Help: "Handler errors"},
	)
	Panics = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "panics_total", Help: "Recovered handler panics"},
	)
	Appends = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ledger_appends_total", Help: "Blocks appended to the ledger"},
		[]string{"kind"},
	)
	Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "analyses_total", Help: "Samples analyzed"},
		[]string{"kind", "risk"},
	)
	Redeliveries = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "webhook_redeliveries_total", Help: "Webhook messages ignored as redeliveries"},
	)
)

func init() {
	prometheus.MustRegister(Requests, Errors, Panics, Appends, Analyses, Redeliveries)
}

// Handler returns the handler serving the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
