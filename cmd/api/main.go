package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inventory-catalog/internal/config"
	"inventory-catalog/internal/database"
	"inventory-catalog/internal/logger"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/repository/memstore"
	"inventory-catalog/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight requests get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

// openStore selects the catalog store named by the configuration. The
// postgres store is migrated before use.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, database.Service, error) {
	switch cfg.Server.StorageDriver {
	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return memstore.New(), nil, nil
	case config.StoragePostgres:
		dbService, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))

		if err := database.RunMigrations(ctx, dbService.DB(), cfg.Server.MigrationsDir, log); err != nil {
			dbService.Close()
			return nil, nil, err
		}
		return repository.NewStore(dbService.DB()), dbService, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Server.StorageDriver)
	}
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting inventory catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Server.StorageDriver),
	)

	ctx := context.Background()

	store, dbService, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open catalog store", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the limiter lets requests through while redis is unreachable
			log.Warn("Redis unavailable, rate limiting is degraded", zap.Error(err))
		}
	}

	srv := server.NewServer(cfg, log, server.Dependencies{
		Store: store,
		DB:    dbService,
		Redis: rdb,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
