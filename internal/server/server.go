package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"buymesho/internal/config"
	"buymesho/internal/database"
	"buymesho/internal/identity"
	"buymesho/internal/media"
	"buymesho/internal/metrics"
	custommiddleware "buymesho/internal/middleware"
	"buymesho/internal/repository"
	"buymesho/internal/service"
	"buymesho/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the collaborators built by main. Redis is optional;
// without it rate limiting is off.
type Dependencies struct {
	DB       database.Service
	Verifier identity.Verifier
	Media    media.Host
	Metrics  *metrics.Metrics
	Redis    *redis.Client
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	return server
}

// NewRouter assembles the middleware chain and every route.
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) chi.Router {
	router := chi.NewRouter()

	// Add basic middleware
	for _, m := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(m)
	}
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.Server.IsProduction()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	if deps.Metrics != nil {
		router.Use(custommiddleware.MetricsMiddleware(deps.Metrics))
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger, cfg.Server.IsProduction()))

	router.Get("/health", healthHandler(deps.DB))
	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	db := deps.DB.DB()

	// Initialize repositories
	sellerRepo := repository.NewSellerRepository(db)
	listingRepo := repository.NewListingRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	var observer service.MediaObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}
	listingService := service.NewListingService(listingRepo, sellerRepo, reportRepo, logger)
	sellerService := service.NewSellerService(sellerRepo, logger)
	reportService := service.NewReportService(reportRepo, logger)
	accountService := service.NewAccountService(
		sellerRepo, listingRepo, reportRepo, deps.Media, observer, cfg.Media.DeleteConcurrency, logger,
	)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(deps.Verifier, logger)

	router.Route("/api", func(r chi.Router) {
		transport.NewListingHandler(listingService, logger).RegisterRoutes(r, authMiddleware)
		transport.NewSellerHandler(sellerService, logger).RegisterRoutes(r, authMiddleware)
		transport.NewProfileHandler(accountService, logger).RegisterRoutes(r, authMiddleware)
		transport.NewReportHandler(reportService, logger).RegisterRoutes(r, rateLimiter(cfg, deps.Redis, "reports", logger))
		transport.NewUploadHandler(deps.Media, cfg.Media.MaxUploadBytes, logger).RegisterRoutes(r, rateLimiter(cfg, deps.Redis, "upload", logger))

		r.NotFound(custommiddleware.APINotFoundHandler)
		r.MethodNotAllowed(custommiddleware.APINotFoundHandler)
	})

	if cfg.Server.StaticDir != "" {
		router.NotFound(spaHandler(cfg.Server.StaticDir))
	}

	return router
}

// rateLimiter gives each route group its own bucket. It is nil when limiting
// is disabled or Redis is unavailable.
func rateLimiter(cfg *config.Config, client *redis.Client, bucket string, logger *zap.Logger) transport.Middleware {
	if client == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return custommiddleware.RateLimitMiddleware(client, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "buymesho:ratelimit:" + bucket,
	}, logger)
}

type healthResponse struct {
	Status   string            `json:"status"`
	Database map[string]string `json:"database"`
}

func healthHandler(db database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())
		if health["status"] != "up" {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "error", Database: health})
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: health})
	}
}

// spaHandler serves files under dir and falls back to index.html for any
// path that does not name a file.
func spaHandler(dir string) http.HandlerFunc {
	root := os.DirFS(dir)
	files := http.FileServer(http.FS(root))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}

		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name != "" {
			if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var errs []error

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
			errs = append(errs, err)
		}
	}

	// Close database connection
	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			errs = append(errs, err)
		}
	}

	_ = s.logger.Sync()
	return errors.Join(errs...)
}
