// Package main provides the main entry point for the Concept Studio service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/concept-studio/app/handlers"
	"github.com/amirphl/concept-studio/app/middleware"
	"github.com/amirphl/concept-studio/app/router"
	"github.com/amirphl/concept-studio/app/services"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/config"
	"github.com/amirphl/concept-studio/migrations"
	"github.com/amirphl/concept-studio/repository"
	"github.com/amirphl/concept-studio/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	logger    *utils.Logger
	stopFuncs []func()
}

func main() {
	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(utils.LoggerOptions{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Caller:     cfg.Logging.EnableCaller,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Concept Studio application...",
		"environment", cfg.Deployment.Environment,
		"version", cfg.Deployment.Version,
		"commit", cfg.Deployment.CommitHash,
	)

	// Initialize application
	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			logger.Fatal("Failed to start server", "address", address, "error", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutting down gracefully...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}

	// Stop background workers and close clients
	for _, fn := range app.stopFuncs {
		fn()
	}

	logger.Info("Server stopped")
}

// gormLogWriter routes gorm's slow query and error lines into the application logger
type gormLogWriter struct {
	logger *utils.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.logger.SugaredLogger.Warnf(format, args...)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg *config.ProductionConfig, logger *utils.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		NowFunc: utils.StoreNow,
		Logger:  gormlogger.Discard,
	}
	if cfg.Database.SlowQueryLog {
		gormCfg.Logger = gormlogger.New(gormLogWriter{logger: logger.With("component", "gorm")}, gormlogger.Config{
			SlowThreshold:             cfg.Database.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(cfg.Store.URL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Test the connection
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		err := migrations.Apply(ctx, sqlDB, func(name string) {
			logger.Info("Applied migration", "file", name)
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Database connection established",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig, logger *utils.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connection established", "db", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, logger *utils.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Warn("Redis healthcheck failed", "error", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeConceptGenerator picks the generation backend named by LLM_PROVIDER
func initializeConceptGenerator(cfg config.LLMConfig, logger *utils.Logger) services.ConceptGenerator {
	switch cfg.Provider {
	case config.LLMProviderMock:
		logger.Warn("Using mock concept generator; no provider calls will be made")
		return services.NewMockConceptGenerator()
	default:
		return services.NewLLMConceptGenerator(services.NewOpenAIChatClient(&cfg), cfg.Model, logger)
	}
}

func initializeApplication(cfg *config.ProductionConfig, logger *utils.Logger) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		stopFuncs = append(stopFuncs, func() { _ = sqlDB.Close() })
	}

	rc, err := initializeCache(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	var locker businessflow.ConceptLocker
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(context.Background(), rc, 30*time.Second, logger))
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
		locker = businessflow.NewRedisConceptLocker(rc, cfg.Cache, logger)
	} else {
		locker = businessflow.NewLocalConceptLocker()
	}

	audienceRepo := repository.NewAudienceRepository(db)
	conceptRepo := repository.NewConceptRepository(db)

	generator := initializeConceptGenerator(cfg.LLM, logger)
	logger.Info("Concept generator initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	gateway := businessflow.NewConceptGateway(audienceRepo, conceptRepo, db)
	audienceFlow := businessflow.NewAudienceFlow(audienceRepo, db, logger)
	conceptFlow := businessflow.NewConceptFlow(gateway, generator, locker, logger)
	workspaceFlow := businessflow.NewWorkspaceFlow(audienceRepo, gateway, logger)

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rc != nil {
		checks["cache"] = func(ctx context.Context) error {
			return rc.Ping(ctx).Err()
		}
	}

	var anonKeyMiddleware *middleware.AnonKeyMiddleware
	if cfg.Security.RequireAnonKey {
		anonKeyService, err := services.NewAnonKeyService(cfg.Store.AnonKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize anon key service: %w", err)
		}
		anonKeyMiddleware = middleware.NewAnonKeyMiddleware(anonKeyService, cfg.Security.AnonKeyHeader)
	}

	appRouter := router.NewFiberRouter(cfg, router.Handlers{
		Generate:  handlers.NewGenerateConceptHandler(conceptFlow, logger),
		Audience:  handlers.NewAudienceHandler(audienceFlow, logger),
		Concept:   handlers.NewConceptHandler(conceptFlow, logger),
		Workspace: handlers.NewWorkspaceHandler(workspaceFlow, checks, logger),
	}, anonKeyMiddleware, logger)

	return &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		logger:    logger,
		stopFuncs: stopFuncs,
	}, nil
}
