package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ozgung/JobsAnalyzer/internal/adapter/extract"
	"github.com/ozgung/JobsAnalyzer/internal/adapter/fetch"
	httpAdapter "github.com/ozgung/JobsAnalyzer/internal/adapter/http"
	"github.com/ozgung/JobsAnalyzer/internal/adapter/logfile"
	"github.com/ozgung/JobsAnalyzer/internal/adapter/sqlite"
	"github.com/ozgung/JobsAnalyzer/internal/config"
	"github.com/ozgung/JobsAnalyzer/internal/domain"
	"github.com/ozgung/JobsAnalyzer/internal/logging"
	"github.com/ozgung/JobsAnalyzer/internal/page"
)

func main() {
	// Optional .env file for local development, like the API key.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting jobsanalyzer",
		zap.Int("port", cfg.Port),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("store_path", cfg.StorePath))

	repo, closeRepo, err := newRepository(cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer closeRepo()

	fetcher := fetch.New(cfg.FetchTimeout(), cfg.UserAgent)
	normalizer := page.NewNormalizer(cfg.MaxExcerptLen)
	extractor := extract.New(extract.ConfigFromEnv())

	svc := domain.NewJobService(repo, fetcher, normalizer, extractor)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := httpAdapter.NewServer(svc, logger, addr, cfg.StaticDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}

// newRepository selects the store backend. The log file is the default;
// SQLite is available for setups that prefer a database file.
func newRepository(cfg *config.Config) (domain.JobRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		repo, err := sqlite.New(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	default:
		repo, err := logfile.New(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}
