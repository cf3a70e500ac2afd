package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ikanmart_orders_placed_total",
			Help: "Orders that completed the placement saga",
		},
		[]string{"policy"},
	)

	SagaFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ikanmart_saga_failures_total",
			Help: "Order placement attempts that failed, by failing step",
		},
		[]string{"step"},
	)

	Compensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ikanmart_saga_compensations_total",
			Help: "Compensating order header deletions, by outcome",
		},
		[]string{"result"},
	)

	StockMutationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ikanmart_stock_mutation_failures_total",
			Help: "Stock ledger mutations that failed and were logged",
		},
		[]string{"op"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ikanmart_order_status_transitions_total",
			Help: "Applied order status transitions",
		},
		[]string{"from", "to"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)
