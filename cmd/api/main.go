// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the member HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Decode the signing key and build the token codec.
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis.
//  6. Run database migrations (idempotent).
//  7. Wire the auth core, collaborators and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/advisor/internal/api"
	"github.com/taibuivan/advisor/internal/platform/config"
	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/message"
	"github.com/taibuivan/advisor/internal/platform/middleware"
	"github.com/taibuivan/advisor/internal/platform/migration"
	pgstore "github.com/taibuivan/advisor/internal/platform/postgres"
	redisstore "github.com/taibuivan/advisor/internal/platform/redis"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/users/account"
	"github.com/taibuivan/advisor/internal/users/auth"
	"github.com/taibuivan/advisor/internal/users/collab"
	"github.com/taibuivan/advisor/internal/users/postauth"
)

// tempTokenPurgeInterval is how often expired reset tokens are removed from PostgreSQL.
const tempTokenPurgeInterval = 10 * time.Minute

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("temp_token_store", cfg.TempTokenStore),
		slog.Bool("post_auth_enabled", cfg.PostAuthEnabled),
	)

	// ── 3. Signing Key ────────────────────────────────────────────────────
	// A bad key must stop startup before any socket is opened.
	signingKey, err := sec.NewSigningKey(cfg.JWTSecret)
	must(log, err, "decode signing key")
	codec := sec.NewCodec(signingKey, cfg.TokenValidity())

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.DefaultOptions(), log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// Background work stops when the server shuts down.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 7. Auth Core ──────────────────────────────────────────────────────
	identities := auth.NewIdentityRepository(pool)
	resolver := auth.NewResolver(identities)
	tokenService := auth.NewTokenService(codec, resolver)

	collaborators := collab.NewClient(collab.Config{
		EmailURL:   cfg.EmailServiceURL,
		BoardURL:   cfg.BoardServiceURL,
		MessageURL: cfg.MessageServiceURL,
		Timeout:    cfg.PostAuthTimeout,
	}, nil)

	var tempTokenRepository auth.TempTokenRepository
	switch cfg.TempTokenStore {
	case config.TempTokenStoreRedis:
		tempTokenRepository = auth.NewRedisTempTokenRepository(rdb)
	default:
		postgresTokens := auth.NewTempTokenRepository(pool)
		tempTokenRepository = postgresTokens
		go purgeTempTokens(appCtx, postgresTokens, log)
	}
	tempTokenService := auth.NewTempTokenService(identities, tempTokenRepository, collaborators)

	// ── 8. Post-Authentication ────────────────────────────────────────────
	var (
		hooks        []middleware.PostAuthHook
		orchestrator *postauth.Orchestrator
	)
	if cfg.PostAuthEnabled {
		orchestrator = postauth.New(resolver, collaborators, cfg.PostAuthTimeout)
		hooks = append(hooks, orchestrator)
	}

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 10. Domain Wiring ─────────────────────────────────────────────────
	catalog := message.NewCatalog()
	accountService := account.NewService(identities, resolver, tokenService, tempTokenService, log)
	accountHandler := account.NewHandler(accountService, catalog, cfg.FrontDomains)

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log,
		api.Security{Authenticator: tokenService, Messages: catalog, Hooks: hooks},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Account:   accountHandler,
		},
	)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	err = server.Shutdown(shutdownCtx)
	shutdownCancel()
	if err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Post-auth runs are detached from requests; let them finish before the pools close.
	if orchestrator != nil {
		drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := orchestrator.Wait(drainCtx); err != nil {
			log.Warn("post_auth_drain_incomplete", slog.Any("error", err))
		}
		drainCancel()
	}

	appCancel()
	log.Info("server_stopped")
}

// purgeTempTokens periodically deletes reset tokens expired for longer than the retention window.
func purgeTempTokens(ctx context.Context, repository *auth.PostgresTempTokenRepository, log *slog.Logger) {
	ticker := time.NewTicker(tempTokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := repository.DeleteExpiredBefore(ctx, now.Add(-constants.TempTokenRetention))
			if err != nil {
				log.Error("temp_token_purge_failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				log.Info("temp_token_purged", slog.Int64("count", removed))
			}
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
