// File: cmd/server/providers.go
package main

import (
	"context"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/auth"
	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"

	"go.uber.org/zap"
)

// provideRepository opens the state backend and flushes the logger on cleanup.
func provideRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Repository, func(), error) {
	repo, closeRepo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		logger.Info("Executing cleanup tasks")
		closeRepo()
		_ = logger.Sync()
	}, nil
}

func provideBlocklist(cfg *config.Config) *auth.InMemoryBlocklistService {
	return auth.NewInMemoryBlocklistService(auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTExpiry,
		CleanupInterval:   10 * time.Minute,
	})
}
