package store

import (
	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"

	"go.uber.org/zap"
)

// NewFromConfig builds a Store for STATE_KEY. DEV_AUTO_LOGIN_ADMIN enables
// admin auto-login on bootstrap.
func NewFromConfig(repo storage.Repository, cfg *config.Config, logger *zap.Logger) *Store {
	return New(repo, cfg.StateKey, logger,
		WithBootstrapOptions(state.Options{AutoLoginAdmin: cfg.DevAutoLoginAdmin}))
}
