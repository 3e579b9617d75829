package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repair_portal_backend/internal/adapters"
	"repair_portal_backend/internal/catalog"
	"repair_portal_backend/internal/email"
	"repair_portal_backend/internal/events"
	apphttp "repair_portal_backend/internal/http"
	"repair_portal_backend/internal/http/router"
	"repair_portal_backend/internal/notification"
	"repair_portal_backend/internal/repairs"
	"repair_portal_backend/internal/repairs/idempotency"
	"repair_portal_backend/internal/saleor"
	"repair_portal_backend/internal/scheduler"
	"repair_portal_backend/internal/webhook"
	"repair_portal_backend/platform/config"
	"repair_portal_backend/platform/db"
	"repair_portal_backend/platform/logger"
	"repair_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	health := map[string]apphttp.HealthChecker{}

	pool := connectDatabase(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
		health["postgres"] = pool
	}

	eventBus := events.NewInMemoryBus(log)

	var idemStore idempotency.Store
	var escalations *scheduler.Client
	if cfg.IsSchedulerEnabled() {
		redisClient, err := scheduler.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = redisClient.Close() }()
		idemStore = idempotency.NewRedisStore(redisClient, cfg.GetIdempotencyTTL())
		health["redis"] = scheduler.NewRedisHealth(redisClient)

		escalations, err = scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize escalation scheduler", "error", err)
			panic("failed to initialize escalation scheduler: " + err.Error())
		}
		defer func() { _ = escalations.Close() }()
	} else {
		log.Warn("REDIS_URL not configured; idempotency and urgent escalation disabled")
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	saleorClient := saleor.New(cfg.GetSaleorAPIURL(), cfg.GetSaleorAppToken(), cfg.GetSaleorChannelID(), log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule, err := catalog.NewModule(pool, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize catalog module", "error", err)
		panic("failed to initialize catalog module: " + err.Error())
	}

	repairsDeps := repairs.Deps{
		Catalog:     adapters.NewCatalogServiceReader(catalogModule.Repository()),
		Workers:     adapters.NewSaleorWorkerPool(saleorClient, cfg.GetWorkerGroupName()),
		Orders:      adapters.NewSaleorOrders(saleorClient),
		Notifier:    webhook.New(cfg, log),
		Idempotency: idemStore,
		Bus:         eventBus,
		Validator:   val,
		Config:      cfg,
		Log:         log,
	}
	if escalations != nil {
		repairsDeps.Scheduler = escalations
	}
	// Escalation tasks are consumed by cmd/scheduler.
	repairsModule := repairs.NewModule(repairsDeps)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			repairsModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	eventBus.Wait()
	log.Info("server stopped")
}

// connectDatabase returns nil when no database is configured; the catalog
// then falls back to its YAML file.
func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	if cfg.GetDatabaseURL() == "" {
		log.Info("DATABASE_URL not configured; using file catalog")
		return nil
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
