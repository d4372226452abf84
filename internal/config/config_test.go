package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/social-feed/internal/auth"
)

func envOf(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, auth.SchemeSHA256, cfg.PasswordScheme)
	assert.Equal(t, auth.DefaultBcryptCost, cfg.BcryptCost)
	assert.Equal(t, "", cfg.TokenSecret)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"PORT":            "9090",
		"DATABASE_URL":    " postgres://u:p@localhost/feed ",
		"PASSWORD_SCHEME": "BCRYPT",
		"BCRYPT_COST":     "10",
		"TOKEN_SECRET":    "0123456789abcdef",
		"REQUEST_TIMEOUT": "5s",
		"LOG_LEVEL":       "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/feed", cfg.DatabaseURL)
	assert.Equal(t, auth.SchemeBcrypt, cfg.PasswordScheme)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "0123456789abcdef", cfg.TokenSecret)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"PORT":            "eighty",
		"PASSWORD_SCHEME": "md5",
		"BCRYPT_COST":     "high",
		"REQUEST_TIMEOUT": "soon",
		"LOG_LEVEL":       "loud",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(envOf(map[string]string{key: value}))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}
