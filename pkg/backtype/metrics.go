package backtype

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess        = "success"
	outcomeHTTPError      = "http_error"
	outcomeTransportError = "transport_error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backtype_client",
			Name:      "requests_total",
			Help:      "Requests issued, by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backtype_client",
			Name:      "request_duration_seconds",
			Help:      "Round trip latency including body read.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)
