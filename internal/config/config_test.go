package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DataModeLocal, cfg.DataMode)
	assert.Equal(t, BackendSQLite, cfg.StateBackend)
	assert.Equal(t, "vueltra_state_v3", cfg.StateKey)
	assert.False(t, cfg.DevAutoLoginAdmin)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.CloudinaryEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATA_MODE", "Remote")
	t.Setenv("STATE_BACKEND", "memory")
	t.Setenv("API_BASE_URL", "https://api.vueltra.id")
	t.Setenv("API_TIMEOUT_SECONDS", "5")
	t.Setenv("DEV_AUTO_LOGIN_ADMIN", "true")
	t.Setenv("STATE_KEY", "vueltra_state_v4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DataModeRemote, cfg.DataMode)
	assert.Equal(t, BackendMemory, cfg.StateBackend)
	assert.Equal(t, "https://api.vueltra.id", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.True(t, cfg.DevAutoLoginAdmin)
	assert.Equal(t, "vueltra_state_v4", cfg.StateKey)
}

func TestLoad_RejectsUnknownModes(t *testing.T) {
	t.Setenv("DATA_MODE", "hybrid")
	_, err := Load()
	assert.ErrorContains(t, err, "DATA_MODE")

	t.Setenv("DATA_MODE", "local")
	t.Setenv("STATE_BACKEND", "floppy")
	_, err = Load()
	assert.ErrorContains(t, err, "STATE_BACKEND")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable", DBTimezone: "UTC"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC", cfg.PostgresDSN())
}
