// Package metrics holds the Prometheus instruments for each service,
// constructed against an injected registerer so tests can use their own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTP struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

type Auth struct {
	RegistrationsTotal         prometheus.Counter
	LoginsTotal                *prometheus.CounterVec
	ActiveSessions             prometheus.Gauge
	PasswordResetRequestsTotal prometheus.Counter
}

func NewAuth(reg prometheus.Registerer) *Auth {
	factory := promauto.With(reg)
	return &Auth{
		RegistrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of successful registrations",
		}),
		LoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"},
		),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "auth_active_sessions",
			Help: "Number of active sessions",
		}),
		PasswordResetRequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_password_reset_requests_total",
			Help: "Total number of password reset requests",
		}),
	}
}

type DBPool struct {
	Active        prometheus.Gauge
	Max           prometheus.Gauge
	QueryDuration *prometheus.HistogramVec
}

func NewDBPool(reg prometheus.Registerer) *DBPool {
	factory := promauto.With(reg)
	return &DBPool{
		Active: factory.NewGauge(prometheus.GaugeOpts{
			Name: "database_connection_pool_active",
			Help: "Number of active database connections",
		}),
		Max: factory.NewGauge(prometheus.GaugeOpts{
			Name: "database_connection_pool_max",
			Help: "Maximum number of database connections",
		}),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "database_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

type Product struct {
	ViewsTotal    *prometheus.CounterVec
	SearchesTotal prometheus.Counter
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
}

func NewProduct(reg prometheus.Registerer) *Product {
	factory := promauto.With(reg)
	return &Product{
		ViewsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_views_total",
				Help: "Total number of product views",
			},
			[]string{"product_id"},
		),
		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "product_searches_total",
			Help: "Total number of product searches",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		}),
	}
}

type Order struct {
	CreatedTotal       *prometheus.CounterVec
	CompletedTotal     prometheus.Counter
	CancelledTotal     prometheus.Counter
	ValueTotal         *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram
	CartsCreatedTotal  prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
}

func NewOrder(reg prometheus.Registerer) *Order {
	factory := promauto.With(reg)
	return &Order{
		CreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total orders created",
			},
			[]string{"status"},
		),
		CompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_completed_total",
			Help: "Total orders completed",
		}),
		CancelledTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_cancelled_total",
			Help: "Total orders cancelled",
		}),
		ValueTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_value_total",
				Help: "Total order value",
			},
			[]string{"currency"},
		),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_processing_duration_seconds",
			Help:    "Order processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CartsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "cart_created_total",
			Help: "Total carts created",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		}),
	}
}
