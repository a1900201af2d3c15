package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/navigator-ai/navcore/internal/api"
	"github.com/navigator-ai/navcore/internal/config"
	"github.com/navigator-ai/navcore/internal/llm"
	"github.com/navigator-ai/navcore/internal/snapshot"
	"github.com/navigator-ai/navcore/internal/task"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Task persistence with background expiry.
	store, err := task.Open(cfg.TaskDBPath, cfg.TaskTTL, log)
	if err != nil {
		log.Error("failed to open task store", "error", err)
		os.Exit(1)
	}
	store.StartCleanup(ctx, 10*time.Minute)

	gemini := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	snaps := snapshot.NewWriter(cfg.SnapshotsDir, log)

	srv := api.NewServer(store, gemini, gemini.Stats, snaps, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		gemini.Close()
		store.Close()
	}()

	log.Info("starting navcore", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
