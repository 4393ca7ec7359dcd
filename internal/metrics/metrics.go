// Package metrics exposes Prometheus counters for the evaluation loop and
// submission outcomes. Served at /metrics by the run command when a listen
// address is configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Evaluations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "timedorder_evaluations_total",
			Help: "Evaluation passes (ticker plus feed events)",
		},
	)

	Attempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "timedorder_attempts_total",
			Help: "Order submission attempts against the venue",
		},
	)

	// Outcomes counts terminal states per cycle; reason is "" for commits and
	// things like spread_too_wide, price_drift, venue_rejected otherwise.
	Outcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timedorder_outcomes_total",
			Help: "Terminal submission outcomes",
		},
		[]string{"status", "reason"},
	)

	SecondsToTrigger = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "timedorder_seconds_to_trigger",
			Help: "Seconds until the next due time (negative once passed)",
		},
	)
)

func init() {
	prometheus.MustRegister(Evaluations, Attempts, Outcomes, SecondsToTrigger)
}

// Serve starts the /metrics endpoint on addr. It blocks; run it in a
// goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
