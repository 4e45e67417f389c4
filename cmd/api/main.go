package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/No0oD/Stajh2Test/internal/application/cleanup"
	"github.com/No0oD/Stajh2Test/internal/config"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/backend"
	"github.com/No0oD/Stajh2Test/internal/pkg/logging"
	transporthttp "github.com/No0oD/Stajh2Test/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := logging.Setup("api", cfg.AppEnv)
	if envErr != nil {
		logger.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer stores.Close()

	mailer, err := backend.NewMailer(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.CleanupEnabled {
		go cleanup.NewSweeper(stores.Verifications, nil).Run(ctx, cfg.CleanupInterval)
	}

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		UserRepo:         stores.Users,
		VerificationRepo: stores.Verifications,
		Mailer:           mailer,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"store", cfg.StoreBackend, "mail", cfg.MailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
