package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, AuthDisabled, cfg.Auth.Mode)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ACADEMY_DATABASE_DRIVER", "sqlite")
	t.Setenv("ACADEMY_AUTH_MODE", "jwt")
	t.Setenv("ACADEMY_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("ACADEMY_SERVICES_CONTACT_WEBHOOK_URL", "https://hook.example/abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, AuthJWT, cfg.Auth.Mode)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "https://hook.example/abc", cfg.Services.ContactWebhookURL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("jwt without secret", func(t *testing.T) {
		t.Setenv("ACADEMY_AUTH_MODE", "jwt")
		_, err := Load()
		assert.ErrorContains(t, err, "ACADEMY_AUTH_JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("ACADEMY_DATABASE_DRIVER", "mongo")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown database driver")
	})

	t.Run("s3 without credentials", func(t *testing.T) {
		t.Setenv("ACADEMY_STORAGE_PROVIDER", "s3")
		_, err := Load()
		assert.ErrorContains(t, err, "ACADEMY_STORAGE_KEY_ID")
	})
}

func TestTimezone(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("ACADEMY_SERVER_TIMEZONE", "America/New_York")
	cfg, err := Load()
	require.NoError(t, err)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 0.1, cfg.Telemetry.SampleRatio)

	t.Setenv("ACADEMY_SERVER_TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown timezone")
}
