package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	WalletsCreated   prometheus.Counter
	WalletOperations *prometheus.CounterVec
	OperationErrors  *prometheus.CounterVec

	// Money movement metrics
	Deposits          prometheus.Counter
	Withdrawals       prometheus.Counter
	Payments          prometheus.Counter
	Transfers         prometheus.Counter
	Refunds           prometheus.Counter
	FundsFrozen       prometheus.Counter
	FundsUnfrozen     prometheus.Counter
	OperationDuration *prometheus.HistogramVec
	MovedAmount       *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_wallet_operations_total",
				Help: "Total wallet operations by type",
			},
			[]string{"operation"},
		),
		OperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_operation_errors_total",
				Help: "Total number of failed wallet operations by type",
			},
			[]string{"operation", "error_type"},
		),

		Deposits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_deposits_total",
			Help: "Total number of deposits",
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_withdrawals_total",
			Help: "Total number of withdrawals",
		}),
		Payments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_payments_total",
			Help: "Total number of payments",
		}),
		Transfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_transfers_total",
			Help: "Total number of wallet-to-wallet transfers",
		}),
		Refunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_refunds_total",
			Help: "Total number of refunds processed",
		}),
		FundsFrozen: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_funds_frozen_total",
			Help: "Total number of freeze operations",
		}),
		FundsUnfrozen: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_funds_unfrozen_total",
			Help: "Total number of unfreeze operations",
		}),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		MovedAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_moved_amount",
				Help:    "Amounts moved per operation",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_db_duration_seconds",
				Help:    "Database query duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_db_errors_total",
				Help: "Total database errors by operation",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_redis_operations_total",
				Help: "Total redis operations by type",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_redis_errors_total",
				Help: "Total redis errors by operation",
			},
			[]string{"operation"},
		),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"result"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_auth_failures_total",
				Help: "Total authentication failures by reason",
			},
			[]string{"reason"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rate_limit_hits_total",
				Help: "Total rate limit rejections",
			},
			[]string{"path"},
		),
	}
}
