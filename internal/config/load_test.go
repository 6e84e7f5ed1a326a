package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 chars

func setRequiredEnv(t *testing.T) {
	t.Setenv("BAMBINI_DATABASE_URL", "postgres://localhost:5432/bambini_test")
	t.Setenv("BAMBINI_AUTH_JWT_SECRET", testSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BAMBINI_SERVER_PORT", "9999")
	t.Setenv("BAMBINI_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/bambini_test", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.False(t, cfg.Auth.RequireEmailConfirmation)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("BAMBINI_AUTH_JWT_SECRET", testSecret)
	// database URL deliberately unset

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("BAMBINI_DATABASE_URL", "postgres://localhost:5432/bambini_test")
	t.Setenv("BAMBINI_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BAMBINI_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}
