package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, exposed on /metrics.
var (
	PaymentAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulkpay_payment_attempts_total",
		Help: "Payment attempts by terminal outcome",
	}, []string{"outcome"})

	GatewayLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bulkpay_gateway_call_duration_seconds",
		Help:    "External gateway call latency",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	BulkTasksFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulkpay_bulk_tasks_finished_total",
		Help: "Bulk tasks reaching a terminal state",
	}, []string{"status"})

	StalledTasksSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulkpay_stalled_tasks_swept_total",
		Help: "Bulk tasks corrected to FAILED by the stall sweeper",
	})
)
