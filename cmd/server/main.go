package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tranvd/gymlife-assistant/internal/api"
	"github.com/tranvd/gymlife-assistant/internal/auth"
	"github.com/tranvd/gymlife-assistant/internal/classifier"
	"github.com/tranvd/gymlife-assistant/internal/clients"
	"github.com/tranvd/gymlife-assistant/internal/dispatch"
	"github.com/tranvd/gymlife-assistant/internal/llm"
	"github.com/tranvd/gymlife-assistant/internal/storage"
	"github.com/tranvd/gymlife-assistant/pkg/config"
)

// noRevocations is the default revoker: token revocation lives with the
// account service and is injected here when that integration is deployed.
type noRevocations struct{}

func (noRevocations) IsRevoked(string) bool { return false }

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the generative backend
	baseURL := cfg.Ollama.URL
	if baseURL == "" {
		baseURL = llm.DiscoverBaseURL()
	}
	backend := llm.New(baseURL, cfg.Ollama.Model, logger)
	logger.Info("Generative backend configured",
		zap.String("url", baseURL), zap.String("model", cfg.Ollama.Model))

	// Initialize the classification pipeline
	clf := classifier.NewHybridClassifier(
		classifier.NewRuleClassifier(),
		classifier.NewLLMClassifier(backend, logger),
	)

	// Initialize collaborator clients and the dispatcher
	dispatcher := dispatch.New(
		store,
		clients.NewProgressClient(cfg.Services.ProgressURL),
		clients.NewFoodsClient(cfg.Services.FoodsURL),
		clients.NewRecommendClient(cfg.Services.RecommendURL),
		backend,
		logger,
	)
	dispatcher.SetFallback(float32(cfg.Ollama.Temperature), llm.RetryPolicy{
		MaxAttempts: cfg.Ollama.Retries,
		Delay:       cfg.Ollama.RetryDelay,
	})

	// Wire HTTP surface
	handler := api.NewHandler(store, clf, dispatcher, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	middleware := auth.NewMiddleware(
		auth.Config{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer},
		noRevocations{},
		func(r *http.Request) bool {
			return r.URL.Path == "/api/health" || r.URL.Path == "/metrics"
		},
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.RequestID(middleware.Wrap(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
