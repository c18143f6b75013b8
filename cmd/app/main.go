package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"registration-service/internal/config"
	"registration-service/internal/domain/ports/adapter"
	pg "registration-service/internal/infra/db/postgres"
	"registration-service/internal/infra/email"
	"registration-service/internal/infra/logging"
	"registration-service/internal/infra/metrics"
	red "registration-service/internal/infra/redis"
	"registration-service/internal/infra/web"
	"registration-service/internal/infra/worker"
	"registration-service/internal/security"
	"registration-service/internal/usecase"
)

// Populated via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, no-op email)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres schema")
	}
	go reportPoolStats(ctx, pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	codeRepo := pg.NewActivationCodeRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Use cases ----
	hasher := security.NewPasswordHasher(cfg.Security.BcryptCost)
	userUC := usecase.NewUserUseCase(userRepo, txManager, hasher, logger)
	activationUC := usecase.NewActivationUseCase(
		userRepo, codeRepo, txManager,
		cfg.Activation.CodeLength, cfg.Activation.TTL(), logger,
	)

	go reportUserCount(ctx, userUC, logger)

	// ---- Email notifier ----
	var notifier adapter.Notifier
	if cfg.Email.APIURL != "" && !cfg.Runtime.Dev {
		notifier = email.NewAPINotifier(cfg.Email, logger)
	} else {
		notifier = email.NewNopNotifier(logger)
	}

	// ---- Background delivery pool ----
	tasks := worker.NewPool(cfg.Server.Workers, logger)
	tasks.Start(ctx)
	defer tasks.Stop()

	// ---- HTTP server ----
	srv := web.NewServer(userUC, activationUC, notifier, tasks, rateLimiter, cfg.RateLimit, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}

// reportUserCount refreshes the registered-accounts gauge once a minute.
func reportUserCount(ctx context.Context, users usecase.UserUseCase, logger *zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := users.Count(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("user count refresh failed")
				continue
			}
			metrics.SetUsersTotal(n)
		}
	}
}

// reportPoolStats feeds the connection pool gauges until ctx ends.
func reportPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := pool.Stat()
			metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		}
	}
}
