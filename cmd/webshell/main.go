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

	"github.com/fairdesk/fairdesk/internal/webshell"
	"github.com/fairdesk/fairdesk/pkg/config"
	"github.com/fairdesk/fairdesk/pkg/logger"
)

func main() {
	// Local development keeps PORT/API_URL in a .env file.
	_ = godotenv.Load()

	cfg, err := webshell.Load(config.GetString("WEBSHELL_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("webshell", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shell, err := webshell.New(cfg, log)
	if err != nil {
		log.Error("failed to configure web shell", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           shell,
		ReadHeaderTimeout: config.GetDuration("READ_HEADER_TIMEOUT", 5*time.Second),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("web shell listening", "addr", srv.Addr, "static_dir", cfg.StaticDir, "api_url", cfg.APIBaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
		log.Info("web shell stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}
