package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/config"
	dbRedis "github.com/Hylst/YoutubeDataCrawler/internal/db/redis"
	logpkg "github.com/Hylst/YoutubeDataCrawler/internal/logger"
	"github.com/Hylst/YoutubeDataCrawler/internal/metrics"
	exportlogrepo "github.com/Hylst/YoutubeDataCrawler/internal/repository/exportlog"
	fetchcacherepo "github.com/Hylst/YoutubeDataCrawler/internal/repository/fetchcache"
	presetrepo "github.com/Hylst/YoutubeDataCrawler/internal/repository/preset"
	chiTransport "github.com/Hylst/YoutubeDataCrawler/internal/transport/chi"
	openaiGen "github.com/Hylst/YoutubeDataCrawler/internal/transport/openai"
	ytSource "github.com/Hylst/YoutubeDataCrawler/internal/transport/youtube"
	enrichuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/enrich"
	exportuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/export"
	fetchuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/fetch"
	filteruc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/filter"
	healthuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/health"
	presetuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/preset"
	projectionuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/projection"
	"github.com/Hylst/YoutubeDataCrawler/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ytcrawler API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Repositories
	presetRepo := presetrepo.New(store, cfg.Storage.KeyPrefix)
	exportLog := exportlogrepo.New(store, cfg.Storage.KeyPrefix)
	fetchCache := fetchcacherepo.New(store, cfg.Storage.KeyPrefix,
		time.Duration(cfg.YouTube.CacheTTLSec)*time.Second)

	// Use case services
	presetSvc := presetuc.New(presetRepo, logger)
	if err := presetSvc.EnsureSeeds(ctx); err != nil {
		logger.Fatal("Failed to seed presets", zap.Error(err))
	}

	filterSvc := filteruc.New(logger)
	projectionSvc := projectionuc.New(logger)

	exportSvc, err := exportuc.New(cfg.Export.OutputDir, exportLog, logger)
	if err != nil {
		logger.Fatal("Failed to create export service", zap.Error(err))
	}

	// Text generation surface is optional: no API key, no enrichment.
	var enrichSvc *enrichuc.Service
	var generationChecker healthuc.GenerationChecker
	if cfg.Generation.APIKey != "" {
		generator := openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:       cfg.Generation.APIKey,
			BaseURL:      cfg.Generation.BaseURL,
			DefaultModel: cfg.Generation.DefaultModel,
			Provider:     cfg.Generation.Provider,
			Logger:       logger,
		})
		enrichSvc = enrichuc.New(generator, logger)
		generationChecker = generator
		logger.Info("Generation provider configured",
			zap.String("provider", cfg.Generation.Provider),
			zap.String("default_model", cfg.Generation.DefaultModel),
		)
	}

	// Fetch surface is optional the same way.
	var fetchSvc *fetchuc.Service
	if cfg.YouTube.APIKey != "" {
		source, err := ytSource.New(ctx, cfg.YouTube.APIKey)
		if err != nil {
			logger.Fatal("Failed to create YouTube source", zap.Error(err))
		}
		fetchSvc = fetchuc.New(source, fetchCache, logger)
		logger.Info("YouTube source configured",
			zap.Int("cache_ttl_sec", cfg.YouTube.CacheTTLSec))
	}

	healthSvc := healthuc.New(store, generationChecker)

	server := chiTransport.NewServer(
		presetSvc, filterSvc, projectionSvc, exportSvc, enrichSvc, fetchSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
