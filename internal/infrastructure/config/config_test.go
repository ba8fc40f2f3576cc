package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultTestConfig()

	assert.Equal(t, "syncbridge", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, 50, cfg.Pipeline.BatchSize)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrent)
	assert.Equal(t, 30*time.Second, cfg.Legacy.QueryTimeout)
	assert.Equal(t, 6*time.Hour, cfg.SyncRun.TTL)
}

func TestValidate(t *testing.T) {
	t.Run("valid defaults pass", func(t *testing.T) {
		cfg := defaultTestConfig()
		require.NoError(t, cfg.validate())
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Database.Driver = "mysql"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Cache.Backend = "memcached"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Database.MaxIdleConns = 100
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Pipeline.BatchSize = -1
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects negative tax rate", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Pipeline.TaxRate = -0.05
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires postgres password and ssl", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production sqlite needs no password", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.App.Env = "production"
		cfg.Database.Driver = "sqlite"
		assert.NoError(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	t.Run("escapes special characters", func(t *testing.T) {
		d := DatabaseConfig{
			Host: "db.internal", Port: 5432,
			User: "sync", Password: "p@ss/word",
			DBName: "canonical", SSLMode: "require",
		}
		dsn := d.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "p%40ss%2Fword")
		assert.Contains(t, dsn, "sslmode=require")
	})

	t.Run("legacy DSN uses legacy settings", func(t *testing.T) {
		l := LegacyConfig{
			Host: "legacy.shop", Port: 5433,
			User: "readonly", Password: "x",
			DBName: "shopdata", SSLMode: "disable",
		}
		assert.Contains(t, l.DSN(), "legacy.shop:5433")
	})
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
