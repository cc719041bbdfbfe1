package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/config"
	"github.com/kailas-cloud/agentcommerce/internal/db"
	dbRedis "github.com/kailas-cloud/agentcommerce/internal/db/redis"
	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/synonym"
	logpkg "github.com/kailas-cloud/agentcommerce/internal/logger"
	"github.com/kailas-cloud/agentcommerce/internal/metrics"
	"github.com/kailas-cloud/agentcommerce/internal/repository/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/repository/corpus"
	chiTransport "github.com/kailas-cloud/agentcommerce/internal/transport/chi"
	"github.com/kailas-cloud/agentcommerce/internal/transport/nominatim"
	"github.com/kailas-cloud/agentcommerce/internal/ui"
	healthuc "github.com/kailas-cloud/agentcommerce/internal/usecase/health"
	orderuc "github.com/kailas-cloud/agentcommerce/internal/usecase/order"
	restaurantuc "github.com/kailas-cloud/agentcommerce/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/agentcommerce/internal/usecase/search"
	"github.com/kailas-cloud/agentcommerce/internal/version"
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

	logger.Info("Starting agentcommerce server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_driver", cfg.Corpus.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	ctx := context.Background()

	// The store is only opened for the redis corpus driver.
	var store db.Store
	if cfg.Corpus.Driver == config.CorpusDriverRedis {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer s.Close()
		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))
		store = s
	}

	entities, menus, err := loadCorpus(ctx, &cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	metrics.CorpusEntities.Set(float64(entities.Len()))
	logger.Info("Corpus loaded", zap.Int("entities", entities.Len()), zap.Int("menus", len(menus)))

	synonyms, err := buildSynonyms(cfg.Search.Synonyms)
	if err != nil {
		logger.Fatal("Invalid synonym table", zap.Error(err))
	}

	geocoder := nominatim.NewGeocoder(&nominatim.Config{
		BaseURL:      cfg.Geocoder.BaseURL,
		UserAgent:    cfg.Geocoder.UserAgent,
		Timeout:      time.Duration(cfg.Geocoder.TimeoutSec) * time.Second,
		CountryCodes: cfg.Geocoder.CountryCodes,
		Logger:       logger,
	})

	// Create use case services
	searchSvc := searchuc.New(entities, geocoder, synonyms, domain.SearchConfig{
		RadiusKm:     cfg.Search.RadiusKm,
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		Source:       cfg.Search.Source,
	})
	restaurantSvc := restaurantuc.New(entities, catalog.New(menus))
	orderSvc := orderuc.New(entities)

	// Pass nil interface (not typed nil pointer!) when no store is configured.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(entities, pinger)

	renderer, err := ui.New()
	if err != nil {
		logger.Fatal("Failed to parse UI templates", zap.Error(err))
	}

	server := chiTransport.NewServer(searchSvc, restaurantSvc, orderSvc, healthSvc, renderer, logger).
		WithDefaultLimit(cfg.Search.DefaultLimit)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// loadCorpus reads entities and generic menus from the configured source.
// A missing menus file is not fatal: the built-in menus are used instead.
func loadCorpus(
	ctx context.Context,
	cfg *config.Config,
	store db.Store,
	logger *zap.Logger,
) (*corpus.Repository, catalog.Menus, error) {
	if cfg.Corpus.Driver == config.CorpusDriverRedis {
		entities, err := corpus.LoadFromStore(ctx, store, cfg.Corpus.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("load corpus from store: %w", err)
		}
		menus, err := catalog.LoadMenusFromStore(ctx, store, cfg.Corpus.MenusKey)
		if errors.Is(err, db.ErrKeyNotFound) {
			logger.Warn("Menus key not found, using built-in menus", zap.String("key", cfg.Corpus.MenusKey))
			return entities, nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load menus from store: %w", err)
		}
		return entities, menus, nil
	}

	entities, err := corpus.LoadFile(cfg.Corpus.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus file: %w", err)
	}
	menus, err := catalog.LoadMenusFile(cfg.Corpus.MenusPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("Menus file not found, using built-in menus", zap.String("path", cfg.Corpus.MenusPath))
		return entities, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load menus file: %w", err)
	}
	return entities, menus, nil
}

// buildSynonyms returns the configured taxonomy, or nil for the built-in one.
func buildSynonyms(classes []config.SynonymsConfig) (*synonym.Table, error) {
	if len(classes) == 0 {
		return nil, nil
	}
	out := make([]synonym.Class, len(classes))
	for i, c := range classes {
		out[i] = synonym.Class{Alias: c.Alias, Synonyms: c.Synonyms}
	}
	t, err := synonym.NewTable(out)
	if err != nil {
		return nil, fmt.Errorf("build synonym table: %w", err)
	}
	return t, nil
}

// jsonRecoverer is a recovery middleware that answers with a JSON-RPC internal error instead of a stacktrace.
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
					_ = json.NewEncoder(w).Encode(map[string]any{
						"jsonrpc": "2.0",
						"error":   map[string]any{"code": -32603, "message": "Internal server error"},
						"id":      nil,
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
