// File: cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/platform/logger"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "reset-state":
			if err := resetState(cfg); err != nil {
				log.Fatalf("FATAL: reset-state failed: %v", err)
			}
			return
		case "serve":
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\nusage: %s [serve|reset-state]\n", os.Args[1], os.Args[0])
			os.Exit(2)
		}
	}

	startServer(cfg)
}

// resetState overwrites the persisted state with the seed state under the
// configured key.
func resetState(cfg *config.Config) error {
	appLogger, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, cleanup, err := storage.Open(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.NewFromConfig(repo, cfg, appLogger).Reset(ctx); err != nil {
		return err
	}
	appLogger.Info("State reset to seed", zap.String("backend", cfg.StateBackend), zap.String("key", cfg.StateKey))
	return nil
}

func startServer(cfg *config.Config) {
	server, cleanup, err := initializeServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("ERROR: Server failed: %v", err)
			return
		}
	}

	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	log.Println("INFO: Server shutdown complete.")
}
