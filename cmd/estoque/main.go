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

	"github.com/pbmartins/estoque/internal/config"
	"github.com/pbmartins/estoque/internal/database"
	"github.com/pbmartins/estoque/internal/email"
	"github.com/pbmartins/estoque/internal/logging"
	"github.com/pbmartins/estoque/internal/scan"
	"github.com/pbmartins/estoque/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.EmailFrom, cfg.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var extractor scan.Extractor
	if cfg.ScanEnabled() {
		gemini, err := scan.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("create document extractor", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		extractor = gemini
	}

	srv := server.New(db, *cfg, emailClient, extractor, logger)

	if srv.BackupManager().Enabled() {
		srv.BackupManager().Start(ctx)
		defer srv.BackupManager().Stop()
	}

	go cleanupLoop(ctx, srv, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("estoque running", "addr", "http://localhost:"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// cleanupLoop prunes expired sessions, stale auth codes, and idle rate
// limiter buckets once an hour.
func cleanupLoop(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				logger.Error("session cleanup", "error", err)
			} else if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
			if _, err := srv.AuthCodeStore().DeleteExpired(); err != nil {
				logger.Error("auth code cleanup", "error", err)
			}
			srv.RateLimiter().Cleanup()
		case <-ctx.Done():
			return
		}
	}
}
