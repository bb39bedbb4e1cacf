package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
	"github.com/iho/gosettle/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	SettlementHandler     *handler.SettlementHandler
	PaymentHandler        *handler.PaymentHandler
	LedgerHandler         *handler.LedgerHandler
	ReconciliationHandler *handler.ReconciliationHandler
	AuditHandler          *handler.AuditHandler
	HealthHandler         *handler.HealthHandler

	Logger           zerolog.Logger
	Gatherer         prometheus.Gatherer
	HTTPMetrics      *middleware.HTTPMetrics
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// JWTManager enables bearer authentication and role checks when set.
	// Without it the caller identity comes from the actor headers.
	JWTManager         *auth.JWTManager
	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(hlog.NewHandler(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{
				"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader,
				middleware.HeaderUserID, middleware.HeaderUserName,
				middleware.HeaderUserEmail, middleware.HeaderUserRole,
			},
			ExposedHeaders: []string{middleware.IdempotencyReplayHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	authOn := cfg.JWTManager != nil
	require := func(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
		if !authOn {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RequireRole(allowed)
	}
	anyRole := func(domain.Role) bool { return true }

	r.Route("/api/v1", func(r chi.Router) {
		if authOn {
			r.Use(middleware.Authenticate(cfg.JWTManager))
		} else {
			r.Use(middleware.Actor)
		}

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.With(require(domain.Role.CanManageAccounts)).Post("/", cfg.AccountHandler.Create)
			r.With(require(anyRole)).Get("/", cfg.AccountHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.With(require(anyRole)).Get("/", cfg.AccountHandler.Get)
				r.With(require(domain.Role.CanManageAccounts)).Post("/deactivate", cfg.AccountHandler.Deactivate)
				r.With(require(domain.Role.CanSettle)).Post("/add-funds", cfg.SettlementHandler.AddFunds)
				r.With(require(anyRole)).Get("/analytics", cfg.LedgerHandler.Analytics)
				r.With(require(anyRole)).Get("/transactions", cfg.LedgerHandler.Transactions)
				r.With(require(anyRole)).Get("/reconciliation", cfg.ReconciliationHandler.Account)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(require(domain.Role.CanSettle)).Post("/", cfg.PaymentHandler.Create)
			r.With(require(anyRole)).Get("/{id}", cfg.PaymentHandler.Get)
			r.With(require(domain.Role.CanSettle)).Post("/{id}/process", cfg.SettlementHandler.ProcessPayment)
		})

		r.With(require(anyRole)).Get("/reconciliation", cfg.ReconciliationHandler.Report)
		r.With(require(domain.Role.CanManageAccounts)).Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
