// Package main is the entry point for the feedback board API server.
// It loads configuration, connects to the selected store, sets up routing,
// and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedbackboard/internal/cache"
	"feedbackboard/internal/config"
	"feedbackboard/internal/database"
	"feedbackboard/internal/handlers"
	"feedbackboard/internal/middleware"
	"feedbackboard/internal/router"
	"feedbackboard/internal/store"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	ctx := context.Background()

	// Open the selected store.
	feedbacks, comments, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := store.Seed(ctx, feedbacks, comments); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// Set up the list response cache.
	listCache, closeCache, err := openListCache(cfg)
	if err != nil {
		slog.Error("failed to set up list cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	// Rate limit writes per client.
	var limiter *middleware.RateLimiter
	if cfg.RateLimitWrites > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitWrites, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(
		handlers.NewFeedback(feedbacks, listCache),
		handlers.NewComments(comments),
		cfg.CORSOrigins,
		limiter,
	)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openStores connects the backend named by cfg.StoreDriver and returns its
// repositories with a function that releases the connection.
func openStores(ctx context.Context, cfg *config.Config) (store.FeedbackRepository, store.CommentRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		feedbacks := store.NewFeedbackStore(db)
		return feedbacks, store.NewCommentStore(db, feedbacks), func() { db.Close() }, nil

	case config.DriverMongo:
		client, err := store.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		mdb := client.Database(cfg.MongoDB)
		if err := store.EnsureMongoIndexes(ctx, mdb); err != nil {
			client.Disconnect(ctx)
			return nil, nil, nil, err
		}
		feedbacks := store.NewMongoFeedbackStore(mdb)
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Disconnect(dctx)
		}
		return feedbacks, store.NewMongoCommentStore(mdb, feedbacks), closeFn, nil

	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		feedbacks := store.NewMemoryFeedbackStore()
		return feedbacks, store.NewMemoryCommentStore(feedbacks), func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// openListCache returns the configured list cache, or nil when caching is
// disabled.
func openListCache(cfg *config.Config) (cache.ListCache, func(), error) {
	if cfg.ListCacheTTL == 0 {
		slog.Info("list cache disabled")
		return nil, func() {}, nil
	}
	if !cfg.UseValkey() {
		slog.Info("list cache in process", "ttl", cfg.ListCacheTTL.String())
		return cache.NewMemoryListCache(cfg.ListCacheTTL), func() {}, nil
	}

	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("list cache in valkey", "ttl", cfg.ListCacheTTL.String())
	return cache.NewValkeyListCache(client, cfg.ListCacheTTL), func() { client.Close() }, nil
}
