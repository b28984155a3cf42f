// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the application collectors. It is exposed on the debug
// host through promhttp.
var Registry = prometheus.NewRegistry()

var (
	requests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "app_requests_total",
		Help: "The total number of handled requests.",
	})

	errorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "app_errors_total",
		Help: "The total number of requests that returned an error.",
	})

	panics = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "app_panics_total",
		Help: "The total number of recovered panics.",
	})

	goroutines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "app_goroutines",
		Help: "The number of goroutines, sampled every 100 requests.",
	})

	seen atomic.Int64
)

func init() {
	Registry.MustRegister(requests, errorsTotal, panics, goroutines)
}

// AddRequests increments the request count and samples goroutines every
// 100 requests.
func AddRequests(ctx context.Context) {
	requests.Inc()

	if seen.Add(1)%100 == 0 {
		goroutines.Set(float64(runtime.NumGoroutine()))
	}
}

// AddErrors increments the errors count.
func AddErrors(ctx context.Context) {
	errorsTotal.Inc()
}

// AddPanics increments the panics count.
func AddPanics(ctx context.Context) {
	panics.Inc()
}
