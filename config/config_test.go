package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Pagination.FirstPage)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, SortInsertion, cfg.Pagination.Sort)
	assert.True(t, cfg.InsecureSecret())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`
server:
  port: "9000"
  shutdown_timeout: 3s
mongo:
  uri: mongodb://db:27017
  db: library
pagination:
  first_page: 0
  default_limit: 3
  max_limit: 3
  sort: author
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("MONGODB_DB", "from-env")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "from-env", cfg.Mongo.DBName)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 0, cfg.Pagination.FirstPage)
	assert.Equal(t, 3, cfg.Pagination.DefaultLimit)
	assert.Equal(t, SortAuthor, cfg.Pagination.Sort)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
	assert.Equal(t, ":9000", cfg.Addr())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"insecure secret in production", func(c *Config) { c.Production = true }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"no port", func(c *Config) { c.Server.Port = "" }},
		{"no mongo uri", func(c *Config) { c.Mongo.URI = "" }},
		{"first page 2", func(c *Config) { c.Pagination.FirstPage = 2 }},
		{"zero limit", func(c *Config) { c.Pagination.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Pagination.MaxLimit = 5 }},
		{"unknown sort", func(c *Config) { c.Pagination.Sort = "title" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("production with real secret", func(t *testing.T) {
		cfg := Default()
		cfg.Production = true
		cfg.JWTSecret = "a-long-random-secret"
		assert.NoError(t, cfg.Validate())
	})
}
