// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eshop"

var (
	// OrdersCreated 按结果统计下单请求：created / invalid_basket / empty_basket / not_found / persistence_error / error。
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "order",
		Name:      "create_requests_total",
		Help:      "Order creation requests by outcome.",
	}, []string{"outcome"})

	// PublishResults 按主题和投递终态统计订单投递。
	PublishResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "publish_results_total",
		Help:      "Order deliveries to the processing queue by terminal state.",
	}, []string{"topic", "state"})

	// PublishWrites 统计 WriteMessages 调用结果，Writer 内部的重试包含在一次调用里。
	PublishWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "publish_writes_total",
		Help:      "WriteMessages calls by result; transport retries happen inside one call.",
	}, []string{"topic", "result"})

	PublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "publish_duration_seconds",
		Help:      "Time spent delivering one message, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"topic"})

	ConsumerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "consumed_messages_total",
		Help:      "Consumed messages by outcome.",
	}, []string{"topic", "outcome"})

	ConsumerFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "fetch_errors_total",
		Help:      "Errors while fetching from the queue (degraded mode).",
	}, []string{"topic"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "alert",
		Name:      "notifications_total",
		Help:      "Operator notifications for failed message processing.",
	}, []string{"outcome"})

	CatalogCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "cache_lookups_total",
		Help:      "Catalog snapshot cache lookups by result.",
	}, []string{"result"})
)
