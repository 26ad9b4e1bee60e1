package server

import (
	"fmt"
	"net/http"
	"time"

	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/config"
	"inventory-catalog/internal/database"
	custommiddleware "inventory-catalog/internal/middleware"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/service"
	"inventory-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the resources a server is built on. DB and Redis are optional:
// DB is nil for the in-memory store, Redis is nil when rate limiting is off.
type Dependencies struct {
	Store repository.Store
	DB    database.Service
	Redis *redis.Client
	Clock clock.Clock
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}

	s := &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}
	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(custommiddleware.CORSMiddleware(s.config.CORS.AllowedOrigins, s.config.Server.Env == "development"))

	router.Get("/health", s.health)

	catalog := service.NewCatalog(s.deps.Store, s.deps.Clock, s.logger)

	router.Group(func(r chi.Router) {
		if s.config.RateLimit.Enabled && s.deps.Redis != nil {
			r.Use(limitWrites(custommiddleware.RateLimitMiddleware(s.deps.Redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: s.config.RateLimit.Requests,
				Window:            s.config.RateLimit.Window,
				KeyPrefix:         "catalog_rate_limit",
			}, s.logger)))
		}

		transport.NewCategoryHandler(catalog.Categories, s.logger).RegisterRoutes(r)
		transport.NewSubcategoryHandler(catalog.Subcategories, s.logger).RegisterRoutes(r)
		transport.NewProductHandler(catalog.Products, s.logger).RegisterRoutes(r)
	})

	return router
}

// limitWrites applies limit to mutating requests only
func limitWrites(limit func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB == nil {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "up",
			"storage": config.StorageMemory,
		})
		return
	}

	stats := s.deps.DB.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	custommiddleware.RespondWithJSON(w, status, stats)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
