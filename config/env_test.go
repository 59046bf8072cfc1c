package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("STOCK_CHECK_DELAY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 800*time.Millisecond, cfg.StockCheckDelay)
	assert.NotEmpty(t, cfg.SessionDB)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("STOCK_CHECK_DELAY", "250ms")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.StockCheckDelay)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "STORE_DRIVER")
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("JWT_EXPIRY", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_EXPIRY")
	})
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "shop", DBSSLMode: "disable"}
	assert.Contains(t, cfg.DSN(), "db")
	assert.Contains(t, cfg.DSN(), "shop")

	cfg.DatabaseURL = "postgres://elsewhere/shop"
	assert.Equal(t, "postgres://elsewhere/shop", cfg.DSN())
}
