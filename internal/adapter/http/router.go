package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler    *handler.WalletHandler
	BalanceHandler   *handler.BalanceHandler
	TransferHandler  *handler.TransferHandler
	EntryHandler     *handler.EntryHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	JWTManager       *auth.JWTManager
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Currencies
		r.Get("/currencies", cfg.WalletHandler.Currencies)

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.Open)
			r.Get("/me", cfg.WalletHandler.Mine)
			r.Get("/{id}", cfg.WalletHandler.Get)

			r.Post("/{id}/deposit", cfg.BalanceHandler.Deposit)
			r.Post("/{id}/withdraw", cfg.BalanceHandler.Withdraw)
			r.Post("/{id}/pay", cfg.BalanceHandler.Pay)
			r.Post("/{id}/funds/freeze", cfg.BalanceHandler.FreezeFunds)
			r.Post("/{id}/funds/unfreeze", cfg.BalanceHandler.UnfreezeFunds)

			r.Put("/{id}/secret", cfg.WalletHandler.SetSecret)
			r.Post("/{id}/secret/check", cfg.WalletHandler.CheckSecret)
			r.Post("/{id}/verify", cfg.WalletHandler.Verify)

			r.Post("/{id}/freeze", cfg.WalletHandler.Freeze)
			r.Post("/{id}/unfreeze", cfg.WalletHandler.Unfreeze)
			r.Post("/{id}/suspend", cfg.WalletHandler.Suspend)
			r.Post("/{id}/close", cfg.WalletHandler.Close)

			r.Get("/{id}/entries", cfg.EntryHandler.ListByWallet)
			r.Get("/{id}/stats", cfg.EntryHandler.Stats)
			r.Get("/{id}/spent/daily", cfg.EntryHandler.DailySpent)
			r.Get("/{id}/spent/monthly", cfg.EntryHandler.MonthlySpent)
		})

		// Owners
		r.Get("/owners/{ownerID}/wallets", cfg.WalletHandler.ListByOwner)

		// Transfers
		r.Post("/transfers", cfg.TransferHandler.Create)

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.ListByReference)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Post("/{id}/refund", cfg.EntryHandler.Refund)
		})
	})

	return r
}
