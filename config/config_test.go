package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30.0, cfg.Decay.HalfLifeDays)
	assert.Equal(t, 24*time.Hour, cfg.Decay.WorkingTTL)
	assert.Equal(t, 0.1, cfg.Decay.MinImportance)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kingmem.yaml")
	content := `
database:
  driver: postgres
  dsn: "host=localhost user=king dbname=kingmem"
decay:
  half_life_days: 14
  min_importance: 0.2
redis:
  enabled: true
  addr: "redis.internal:6379"
log:
  level: debug
  encoding: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 14.0, cfg.Decay.HalfLifeDays)
	assert.Equal(t, 0.2, cfg.Decay.MinImportance)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset fields keep their defaults.
	assert.Equal(t, 24*time.Hour, cfg.Decay.WorkingTTL)
	assert.Equal(t, 3*time.Second, cfg.Resolver.PlanTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decay: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Database, cfg.Database)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"_REDIS_ADDR", "env-redis:6380")
	t.Setenv(EnvPrefix+"_DATABASE_DSN", "env.db")
	t.Setenv(EnvPrefix+"_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "env.db", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "mongodb" }},
		{"zero half life", func(c *Config) { c.Decay.HalfLifeDays = 0 }},
		{"negative working ttl", func(c *Config) { c.Decay.WorkingTTL = -time.Hour }},
		{"min importance above one", func(c *Config) { c.Decay.MinImportance = 1.5 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBuildLogger(t *testing.T) {
	t.Parallel()

	t.Run("json production", func(t *testing.T) {
		t.Parallel()
		logger, err := LogConfig{Level: "info", Encoding: "json"}.BuildLogger()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("console development", func(t *testing.T) {
		t.Parallel()
		logger, err := LogConfig{Level: "debug", Encoding: "console"}.BuildLogger()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()
		_, err := LogConfig{Level: "noisy"}.BuildLogger()
		assert.Error(t, err)
	})
}
