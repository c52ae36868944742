package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/directory"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
	"leavedesk/internal/platform/metrics"
	authhandler "leavedesk/internal/transport/http/handlers/auth"
	directoryhandler "leavedesk/internal/transport/http/handlers/directory"
	leavehandler "leavedesk/internal/transport/http/handlers/leave"
	"leavedesk/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Leave  *leave.Service
}

// New builds a fully wired application: pool, migrations, seed, policy
// catalog, routes. Callers own serving and shutdown.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	directoryStore := directory.NewStore(pool)
	leaveService := leave.NewService(leave.NewStore(pool), directoryStore)
	if err := leaveService.LoadCatalog(ctx); err != nil {
		// Degraded mode: requests are accepted without policy checks
		// until a later load succeeds.
		slog.Warn("policy catalog unavailable at startup", "err", err)
	}

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	m := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))
	if cfg.MetricsEnabled {
		router.Use(middleware.Instrument(m))
		router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authService)
		r.Post("/auth/login", authHandler.HandleLogin)

		directoryhandler.NewHandler(directoryStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, m).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router, Leave: leaveService}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() error {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	slog.Info("leavedesk server listening", "addr", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, app.Router)
}
