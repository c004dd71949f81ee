package storage

import (
	"context"
	"fmt"

	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/platform/database"

	"go.uber.org/zap"
)

// Open builds the repository named by STATE_BACKEND. The cleanup function
// releases the underlying connection and is safe to call once.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Repository, func(), error) {
	switch cfg.StateBackend {
	case config.BackendMemory:
		repo := NewMemoryRepository()
		return repo, func() { _ = repo.Close() }, nil

	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.NewGORM(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewGORMRepository(db)
		if err != nil {
			database.CloseGORMDB(db, logger)
			return nil, nil, err
		}
		return repo, func() { database.CloseGORMDB(db, logger) }, nil

	case config.BackendRedis:
		repo, err := NewRedisRepository(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Error("Error closing redis connection", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
