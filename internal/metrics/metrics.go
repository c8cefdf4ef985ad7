package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edupay_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "edupay_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PaymentsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edupay_payments_accepted_total",
		Help: "Payments that passed validation and were committed",
	})

	PaymentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edupay_payments_rejected_total",
		Help: "Payments refused by the acceptance rule, by reason",
	}, []string{"reason"})

	AmountCollectedPaise = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edupay_amount_collected_paise_total",
		Help: "Total collected amount in paise",
	})

	ConcurrentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edupay_payment_conflicts_total",
		Help: "Payments that failed the optimistic concurrency guard",
	})
)
