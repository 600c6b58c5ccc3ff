package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:   "postgres://localhost:5432/kabas",
		EncryptionKey: strings.Repeat("ab", 32),
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		require.NoError(t, validate(validConfig()))
	})

	t.Run("requires database url", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseURL = ""
		assert.EqualError(t, validate(cfg), "DATABASE_URL is required")
	})

	t.Run("requires encryption key", func(t *testing.T) {
		cfg := validConfig()
		cfg.EncryptionKey = ""
		assert.EqualError(t, validate(cfg), "ENCRYPTION_KEY is required")
	})

	t.Run("rejects non-hex encryption key", func(t *testing.T) {
		cfg := validConfig()
		cfg.EncryptionKey = strings.Repeat("zz", 32)
		assert.ErrorContains(t, validate(cfg), "must be valid hex")
	})

	t.Run("rejects short encryption key", func(t *testing.T) {
		cfg := validConfig()
		cfg.EncryptionKey = strings.Repeat("ab", 16)
		assert.ErrorContains(t, validate(cfg), "64 hex characters")
	})
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/kabas")
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("cd", 32))
	t.Setenv("PORT", "8081")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
}
