package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Server.StoragePath)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "eduprojects", cfg.Mongo.Database)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "720h", cfg.JWT.TokenExpiration)
	assert.Equal(t, int64(10), cfg.Uploads.MaxFileSizeMB)
	assert.Equal(t, int64(50), cfg.Uploads.MaxCodeFileSizeMB)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "8081"
mongo:
  uri: "mongodb://db:27017"
  database: "projects_test"
jwt:
  secret: "file-secret"
  token_expiration: "24h"
`)
	require.NoError(t, os.WriteFile(configPath, content, 0o600))

	// Environment wins over the file
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "projects_test", cfg.Mongo.Database)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "24h", cfg.JWT.TokenExpiration)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_TOKEN_EXPIRATION", "30 days")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
