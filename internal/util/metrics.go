package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "items_classified_total",
		Help: "Total number of item names classified",
	}, []string{"outcome"})

	ItemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_created_total",
		Help: "Total number of inventory items created",
	})

	ItemsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_deleted_total",
		Help: "Total number of inventory items hard-deleted",
	})

	ItemsDepletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_depleted_total",
		Help: "Total number of items whose last unit was consumed",
	})

	ConsumeRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consume_requests_total",
		Help: "Total number of consumption requests",
	})

	IngredientsNotFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consume_ingredients_not_found_total",
		Help: "Total number of requested ingredients with no matching stock",
	})

	ConsumeConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consume_conflicts_total",
		Help: "Total number of optimistic-concurrency conflicts during consumption",
	})

	ConsumeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "consume_latency_seconds",
		Help:    "Latency of consumption requests",
		Buckets: prometheus.DefBuckets,
	})

	ShoppingTransitionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_transitions_total",
		Help: "Total number of shopping-list entries moved into inventory",
	})

	ShoppingTransitionsPartialTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_transitions_partial_total",
		Help: "Total number of transitions where the item was created but shopping-list removal failed",
	})

	ReplenishmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replenishments_total",
		Help: "Total number of depleted items put back on a shopping list",
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
