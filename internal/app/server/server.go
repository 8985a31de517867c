package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"govpay/internal/domain/audit"
	"govpay/internal/domain/auth"
	"govpay/internal/domain/budget"
	"govpay/internal/domain/dashboard"
	"govpay/internal/domain/messages"
	"govpay/internal/domain/payroll"
	"govpay/internal/domain/registry"
	"govpay/internal/platform/config"
	cryptoutil "govpay/internal/platform/crypto"
	"govpay/internal/platform/db"
	"govpay/internal/platform/metrics"
	"govpay/internal/transport/http/api"
	authhandler "govpay/internal/transport/http/handlers/auth"
	budgethandler "govpay/internal/transport/http/handlers/budget"
	dashboardhandler "govpay/internal/transport/http/handlers/dashboard"
	messageshandler "govpay/internal/transport/http/handlers/messages"
	payrollhandler "govpay/internal/transport/http/handlers/payroll"
	registryhandler "govpay/internal/transport/http/handlers/registry"
	"govpay/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router chi.Router

	httpServer *http.Server
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	var collector *metrics.Metrics
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	auditor := audit.NewRecorder(pool)
	authStore := auth.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	payrollSvc := payroll.NewService(payrollStore)
	pdfGen := payroll.NewPDFGenerator(payrollStore, cryptoSvc, cfg.PayslipDir)
	budgetSvc := budget.NewService(budget.NewStore(pool))
	registrySvc := registry.NewService(registry.NewStore(pool))
	messagesSvc := messages.NewService(messages.NewStore(pool))
	dashboardSvc := dashboard.NewService(dashboard.NewStore(pool))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	r.Use(middleware.Auth(cfg.JWTSecret))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unavailable", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(r.Context()))
	})
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, cfg.JWTTTL).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, pdfGen, auditor).RegisterRoutes(r)
		budgethandler.NewHandler(budgetSvc, auditor).RegisterRoutes(r)
		registryhandler.NewHandler(registrySvc, auditor).RegisterRoutes(r)
		messageshandler.NewHandler(messagesSvc).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboardSvc).RegisterRoutes(r)
	})

	return &App{
		Config: cfg,
		DB:     pool,
		Router: r,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

func (a *App) Run() error {
	err := a.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	a.DB.Close()
	return err
}
