package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "3010")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("UPLOAD_DIR", "uploads/candidates")
	t.Setenv("REQUEST_TIMEOUT", "invalid")
	t.Setenv("UPLOAD_RATE_PER_MINUTE", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3010", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.FrontendURLs)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "uploads/candidates", cfg.UploadDir)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.UploadRatePerMinute)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("FRONTEND_URL", "https://ats.example.com/, http://localhost:5173")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://ats.example.com", "http://localhost:5173"}, cfg.FrontendURLs)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}
