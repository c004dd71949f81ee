package datasource

import (
	"context"

	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/session"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"
	"github.com/vueltra/vueltra-property2-sub000/internal/upload"

	"go.uber.org/zap"
)

// New returns the data source selected by DATA_MODE. In local mode the state
// lives in the STATE_BACKEND repository; in remote mode that repository only
// holds the session. The cleanup function closes the repository.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (DataSource, func(), error) {
	repo, cleanup, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.DataMode == config.DataModeRemote {
		logger.Info("Using remote data source", zap.String("baseURL", cfg.APIBaseURL))
		sessions := session.NewStore(repo, cfg.SessionKeyPrefix)
		return NewRemote(RemoteConfig{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, sessions, logger), cleanup, nil
	}

	logger.Info("Using local data source", zap.String("backend", cfg.StateBackend), zap.String("key", cfg.StateKey))
	s := store.NewFromConfig(repo, cfg, logger)
	return NewLocal(s, upload.NewDataURIUploader(), logger), cleanup, nil
}
