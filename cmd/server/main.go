package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/auth"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/cache"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/config"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/database"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/handlers"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/media"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/middleware"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/queue"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/search"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/service"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/storage"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/validation"
	"go.uber.org/zap"
)

const serviceName = "vidshare-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	logger.InfoWithFields("=== Server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
	})
	if err != nil {
		logger.WarnWithFields("Tracing disabled", err)
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.WarnWithFields("Tracer shutdown failed", err)
			}
		}()
	}

	if err := database.Initialize(cfg.Database, cfg.Environment, tp != nil); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	validator := validation.NewServiceValidator(validation.ParseRequired(cfg.RequiredServices))

	// Redis is optional. Interfaces stay nil when it is off so the
	// consumers fall back to their local behaviour.
	var (
		rateCounter middleware.WindowCounter
		statsStore  cache.Store
	)
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.WarnWithFields("Redis unavailable, using in-memory rate limiting and no stats cache", err)
		} else {
			defer redisClient.Close()
			rateCounter = redisClient
			statsStore = redisClient
			validator.Register(validation.ServiceRedis, redisClient.Ping)
		}
	}

	var index service.VideoIndex
	if cfg.Search.ElasticsearchURL != "" {
		esClient, err := search.NewClient(cfg.Search.ElasticsearchURL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = esClient.EnsureIndex(ctx)
			cancel()
		}
		if err != nil {
			logger.WarnWithFields("Search index sync disabled", err)
		} else {
			indexQueue := queue.NewIndexQueue(search.NewVideoIndexer(esClient), 0, 0)
			indexQueue.Start()
			defer indexQueue.Stop()
			index = indexQueue
			validator.Register(validation.ServiceElasticsearch, esClient.Ping)
		}
	}

	uploader, storageCheck := newUploader(cfg.Storage)
	if storageCheck != nil {
		validator.Register(validation.ServiceStorage, storageCheck)
	}

	if err := validator.ValidateServices(context.Background()); err != nil {
		logger.FatalWithFields("Required service unavailable", err)
	}

	services := service.New(service.Deps{
		DB:            database.DB,
		Uploader:      uploader,
		Prober:        media.NewFFProbe(30 * time.Second),
		Index:         index,
		Stats:         cache.NewStatsCache(statsStore, cfg.Limits.StatsCacheTTL),
		UploadTimeout: cfg.Storage.UploadTimeout,
	})

	if cfg.JWT.Secret == config.DevJWTSecret {
		logger.Log.Warn("JWT_SECRET is not set; signing tokens with the development secret")
	}
	authService := auth.NewService(database.DB, []byte(cfg.JWT.Secret), cfg.JWT.TTL)

	h := handlers.NewHandlers(services, cfg.Storage.UploadDir, int(cfg.Storage.MaxUploadMB))
	h.SetAuthService(authService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if tp != nil {
		r.Use(middleware.TracingMiddleware(serviceName))
	}

	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := database.Health(); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiLimit := middleware.DefaultRateLimitConfig()
	apiLimit.Limit = cfg.Limits.RateLimitRequests
	apiLimit.Window = cfg.Limits.RateLimitWindow

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(rateCounter, apiLimit))
	h.RegisterRoutes(api, handlers.RouteMiddleware{
		Auth:         middleware.AuthMiddleware(authService),
		OptionalAuth: middleware.OptionalAuthMiddleware(authService),
		UploadLimit:  middleware.RateLimit(rateCounter, middleware.UploadRateLimitConfig()),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}

// newUploader builds the configured blob backend and its reachability
// check. A backend that cannot be built is replaced by storage.Disabled so
// the API still serves reads.
func newUploader(cfg config.StorageConfig) (storage.Uploader, validation.Check) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cfg.Driver {
	case "s3":
		s3Uploader, err := storage.NewS3Uploader(ctx, cfg)
		if err != nil {
			logger.WarnWithFields("S3 uploader unavailable, uploads disabled", err)
			return storage.Disabled{}, nil
		}
		if err := s3Uploader.CheckBucketAccess(ctx); err != nil {
			logger.WarnWithFields("S3 bucket access failed, uploads will fail", err,
				zap.String("bucket", cfg.Bucket))
		}
		return storage.Instrument(s3Uploader), s3Uploader.CheckBucketAccess
	case "minio":
		minioUploader, err := storage.NewMinioUploader(ctx, cfg)
		if err != nil {
			logger.WarnWithFields("MinIO uploader unavailable, uploads disabled", err)
			return storage.Disabled{}, nil
		}
		return storage.Instrument(minioUploader), minioUploader.CheckBucketAccess
	default:
		logger.Log.Info("STORAGE_DRIVER=none, uploads disabled")
		return storage.Disabled{}, nil
	}
}
