package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/paddockvision/paddock-backend/internal/adapter/postgres"
	correctionrepo "github.com/paddockvision/paddock-backend/internal/adapter/postgres/correction"
	"github.com/paddockvision/paddock-backend/internal/adapter/provider/mlservice"
	"github.com/paddockvision/paddock-backend/internal/adapter/rediscache"
	"github.com/paddockvision/paddock-backend/internal/auth"
	"github.com/paddockvision/paddock-backend/internal/config"
	"github.com/paddockvision/paddock-backend/internal/service/correction"
	"github.com/paddockvision/paddock-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, connects the backing stores, wires the correction service,
// and serves HTTP until the context is cancelled or a termination signal
// arrives.
//
// The database is optional: a missing DSN or a failed pool construction
// puts the service into degraded mode (no durable correction records)
// instead of aborting startup.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("database_configured", cfg.Database.Configured()),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres: best-effort. Degraded mode without it.
	var repo correction.Repo
	var pinger rest.DBPinger
	if cfg.Database.Configured() {
		pool, poolErr := postgres.NewPool(ctx, cfg.Database)
		if poolErr != nil {
			logger.Warn("database unavailable, running in degraded mode",
				slog.String("error", poolErr.Error()),
			)
		} else {
			defer pool.Close()
			txm := postgres.NewTxManager(pool)
			repo = correctionrepo.New(pool, txm)
			pinger = pool
		}
	}

	cache, err := rediscache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	trigger := mlservice.NewClient(cfg.MLService, logger)

	svc := correction.NewService(logger, repo, cache, trigger, nil)
	if !svc.PersistenceAvailable() {
		logger.Warn("running without durable correction records")
	}

	var validator rest.TokenValidator
	if cfg.Auth.Enabled() {
		validator = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	}

	router := rest.NewRouter(rest.RouterDeps{
		Logger:     logger,
		Service:    svc,
		DB:         pinger,
		Cache:      cache,
		Validator:  validator,
		CORS:       cfg.CORS,
		APIVersion: BuildVersion(),

		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
