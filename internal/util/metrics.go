package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	CartSaturationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_saturations_total",
		Help: "Total number of add requests capped at the maximum line quantity",
	})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrderValueCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_value_cents",
		Help:    "Subtotal of placed orders in cents",
		Buckets: prometheus.ExponentialBuckets(1000, 2, 12),
	})

	OrderEventsPublishFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_events_publish_failed_total",
		Help: "Total number of order events that could not be published",
	})

	OrderConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_confirmations_total",
		Help: "Total number of order confirmations handled",
	}, []string{"result"})

	FilterResultSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_filter_result_size",
		Help:    "Number of products returned by catalog filtering",
		Buckets: prometheus.LinearBuckets(0, 2, 10),
	})

	ProductLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_lookups_total",
		Help: "Total number of product lookups",
	}, []string{"result"})

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
