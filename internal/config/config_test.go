package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_DRIVER", "MONGO_URI", "MONGO_DB", "MONGO_TRANSACTIONS",
		"TOKEN_EXPIRY", "AUTH_REQUIRED", "REDIS_ADDR", "CACHE_TTL", "CORS_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "secret")

	cfg := LoadConfig()

	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, StoreMongo, cfg.StoreDriver)
	require.Equal(t, "social", cfg.MongoDB)
	require.False(t, cfg.MongoTransactions)
	require.Equal(t, 30*24*time.Hour, cfg.TokenExpiry)
	require.True(t, cfg.AuthRequired)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	require.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("TOKEN_EXPIRY", "1h")
	t.Setenv("AUTH_REQUIRED", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("RECONCILE_SCHEDULE", "")

	cfg := LoadConfig()

	require.Equal(t, "8081", cfg.Port)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.True(t, cfg.MongoTransactions)
	require.Equal(t, time.Hour, cfg.TokenExpiry)
	require.False(t, cfg.AuthRequired)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 5*time.Second, cfg.CacheTTL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	require.Empty(t, cfg.ReconcileSchedule)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_EXPIRY", "thirty days")
	t.Setenv("AUTH_REQUIRED", "maybe")

	cfg := LoadConfig()

	require.Equal(t, 30*24*time.Hour, cfg.TokenExpiry)
	require.True(t, cfg.AuthRequired)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			StoreDriver: StoreMongo,
			MongoURI:    "mongodb://localhost:27017",
			JWTSecret:   "secret",
			TokenExpiry: time.Hour,
			CacheTTL:    time.Second,
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, false},
		{"non-positive expiry", func(c *Config) { c.TokenExpiry = 0 }, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, false},
		{"mongo without uri", func(c *Config) { c.MongoURI = "" }, false},
		{"memory without uri", func(c *Config) { c.StoreDriver = StoreMemory; c.MongoURI = "" }, true},
		{"redis without ttl", func(c *Config) { c.RedisAddr = "localhost:6379"; c.CacheTTL = 0 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
