// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/bridge"
	"github.com/quotewise-ai/quoting-platform/internal/config"
	"github.com/quotewise-ai/quoting-platform/internal/content"
	"github.com/quotewise-ai/quoting-platform/internal/handler"
	"github.com/quotewise-ai/quoting-platform/internal/llm"
	"github.com/quotewise-ai/quoting-platform/internal/middleware"
	"github.com/quotewise-ai/quoting-platform/internal/session"
	"github.com/quotewise-ai/quoting-platform/internal/store"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
	"github.com/quotewise-ai/quoting-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "quoting-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to the document store
	storeClient, err := store.Connect(ctx, store.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to document store", zap.Error(err))
		os.Exit(1)
	}
	defer storeClient.Close()

	documents, err := store.NewDocumentStore(ctx, storeClient)
	if err != nil {
		log.Error("failed to initialize document collections", zap.Error(err))
		os.Exit(1)
	}

	messageLog := store.NewMessageLog(storeClient)
	if err := messageLog.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure message stream", zap.Error(err))
		os.Exit(1)
	}

	contentStore, err := content.NewStore(ctx, storeClient, cfg.PublicBaseURL)
	if err != nil {
		log.Error("failed to initialize content store", zap.Error(err))
		os.Exit(1)
	}

	// Initialize inference client
	var inference llm.Client
	if cfg.AnthropicAPIKey != "" {
		inference, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	} else if cfg.OpenAIAPIKey != "" {
		inference, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else {
		log.Error("no inference API key configured")
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to create inference client", zap.Error(err))
		os.Exit(1)
	}
	log.Info("inference client ready", zap.String("provider", inference.Name()))

	// Open the session snapshot cache; sessions degrade to in-memory
	// state if it is unavailable.
	var snapshots session.Store
	if sqliteStore, err := session.OpenSQLiteStore(cfg.CachePath); err != nil {
		log.Warn("snapshot cache unavailable, sessions will not persist", zap.Error(err))
	} else {
		snapshots = sqliteStore
		defer sqliteStore.Close()
	}

	// Wire the session core; all remote clients are injected here.
	remoteBridge := bridge.New(inference, documents, messageLog, contentStore, log)
	sessionManager := session.NewManager(remoteBridge, snapshots, log, cfg.InferenceTimeout)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(storeClient)
	sessionHandler := handler.NewSessionHandler(sessionManager, log)
	quoteHandler := handler.NewQuoteHandler(documents, messageLog, log)
	contractorHandler := handler.NewContractorHandler(documents, log)
	consumerHandler := handler.NewConsumerHandler(documents, log)
	mediaHandler := handler.NewMediaHandler(contentStore, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Stored images (durable URLs resolve here)
	r.Get("/media/{name}", mediaHandler.Get)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Chat sessions are open to anonymous visitors; white-labeled
		// links land here before any sign-in.
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Close)
				r.Post("/messages", sessionHandler.SendMessage)
				r.Post("/images", sessionHandler.CaptureImage)

				// Saving requires an authenticated identity.
				r.With(middleware.Auth(cfg.JWTSecret)).Post("/quote", sessionHandler.SaveQuote)
			})
		})

		// Public contractor profiles for white-labeled links.
		r.Get("/contractors/{slug}", contractorHandler.Get)

		// Everything below requires authentication.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Put("/contractors/{slug}", contractorHandler.Upsert)

			r.Get("/consumers/{id}", consumerHandler.Get)
			r.Put("/consumers/{id}", consumerHandler.Upsert)

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", quoteHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", quoteHandler.Get)
					r.Patch("/", quoteHandler.Update)
					r.Get("/messages", quoteHandler.ListMessages)
					r.Post("/messages", quoteHandler.AppendMessage)
				})
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
