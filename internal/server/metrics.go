package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enquiry_desk",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled, partitioned by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	requestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "enquiry_desk",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"route", "method"},
	)
)

// Register attaches the server collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		requestsTotal,
		requestDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// observeRequest records one handled request.
func observeRequest(route, method string, code int, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	requestDurationSeconds.WithLabelValues(route, method).Observe(duration.Seconds())
}
