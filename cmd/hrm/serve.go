package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/handlers"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run migrations before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg, log := a.cfg, a.logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, closeDB, err := a.connect()
	if err != nil {
		return err
	}
	defer closeDB()
	if migrate {
		if err := database.Migrate(db.WithContext(ctx)); err != nil {
			return err
		}
	}

	var (
		redisClient *redis.Client
		revocations auth.RevocationList
	)
	if cfg.RedisURL != "" {
		redisClient, err = auth.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		revocations = auth.NewRedisRevocationList(redisClient)
	} else {
		log.Warn("REDIS_URL not set: logout does not revoke tokens and rate limits are per process")
	}

	catalog := permissions.Default()
	svc := services.New(db, services.Options{
		Catalog:     catalog,
		Pagination:  services.Pagination{DefaultSize: cfg.PageSize, MaxSize: cfg.MaxPageSize},
		Tokens:      auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionDuration),
		Revocations: revocations,
		Logger:      log,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	renderer, err := page.NewRenderer(cfg.AssetVersion, cfg.IsProduction(), handlers.SharedProps)
	if err != nil {
		return err
	}

	loginLimit, err := middleware.LoginRateLimit(cfg.LoginRateLimit, middleware.NewLimiterStore(redisClient, log), renderer)
	if err != nil {
		return err
	}

	router, err := handlers.NewRouter(handlers.RouterConfig{
		Services:    handlers.FromServices(svc),
		Catalog:     catalog,
		Renderer:    renderer,
		Logger:      log,
		Cookie:      handlers.SessionCookie{Name: cfg.SessionCookie, TTL: cfg.SessionDuration, Secure: cfg.IsProduction()},
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     middleware.NewMetrics(registry),
		MetricsPath: cfg.MetricsPath,
		LoginLimit:  loginLimit,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
