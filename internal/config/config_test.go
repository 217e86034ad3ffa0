package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWTSecret: "development-secret",
		Port:      "8340",
		DBDriver:  "sqlite",
		DBName:    "chronicle.db",
		LoginURL:  "/auth/login/",
		Env:       "development",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("development defaults pass", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing required values", func(t *testing.T) {
		for _, mutate := range []func(*Config){
			func(c *Config) { c.Port = "" },
			func(c *Config) { c.JWTSecret = "" },
			func(c *Config) { c.LoginURL = "" },
			func(c *Config) { c.DBDriver = "oracle" },
		} {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		}
	})

	t.Run("production hardening", func(t *testing.T) {
		base := func() *Config {
			return &Config{
				JWTSecret:  "a-strong-production-secret-0123456789abcdef",
				Port:       "8340",
				DBDriver:   "postgres",
				DBPassword: "sturdy-db-pass",
				LoginURL:   "/auth/login/",
				Env:        "production",
			}
		}
		require.NoError(t, base().Validate())

		cfg := base()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate(), "default secret is rejected")

		cfg = base()
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate(), "short secret is rejected")

		cfg = base()
		cfg.DBDriver = "sqlite"
		assert.Error(t, cfg.Validate(), "sqlite is rejected in production")

		cfg = base()
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate(), "default db password is rejected")
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8340", cfg.Port)
	assert.Equal(t, "/auth/login/", cfg.LoginURL)
	assert.NotEmpty(t, cfg.JWTSecret)
}
