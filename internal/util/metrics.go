package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uploads_total",
		Help: "Total number of successful catalog uploads",
	})

	UploadsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_failed_total",
		Help: "Total number of failed catalog uploads",
	}, []string{"reason"})

	RowsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rows_ingested_total",
		Help: "Total number of rows normalized into catalog entries",
	})

	PaymentsInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_initiated_total",
		Help: "Total number of payments initiated",
	})

	PaymentsSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_settled_total",
		Help: "Total number of payments settled successfully",
	})

	PaymentsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_failed_total",
		Help: "Total number of simulated settlement failures",
	})

	CheckoutRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected_total",
		Help: "Total number of rejected checkout initiations",
	}, []string{"reason"})

	CartClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_clears_total",
		Help: "Total number of post-delivery cart sweeps",
	})

	SettlementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_latency_seconds",
		Help:    "Time between payment initiation and settlement",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
