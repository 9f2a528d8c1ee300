package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-crypto-dash/internal/config"
	"github.com/stretchr/testify/require"
)

func TestGetDuration(t *testing.T) {
	t.Run("default when unset", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "")
		require.Equal(t, time.Minute, config.GetDuration("TEST_DURATION", time.Minute))
	})

	t.Run("go duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "90s")
		require.Equal(t, 90*time.Second, config.GetDuration("TEST_DURATION", time.Minute))
	})

	t.Run("bare seconds", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "15")
		require.Equal(t, 15*time.Second, config.GetDuration("TEST_DURATION", time.Minute))
	})

	t.Run("garbage falls back", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "soon")
		require.Equal(t, time.Minute, config.GetDuration("TEST_DURATION", time.Minute))
	})
}

func TestSessionDefaults(t *testing.T) {
	t.Setenv("INACTIVITY_TIMEOUT", "")
	t.Setenv("SESSION_EXPIRY_NOTICE", "")

	c := config.New()
	require.Equal(t, 30*time.Minute, c.GetInactivityTimeout())
	require.False(t, c.GetExpiryNotice())
}

func TestEnvVars(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("PORT", "9000")

	c := config.New()
	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, ":9000", c.GetPort())
}

func TestStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	require.Equal(t, config.StorageRedis, config.New().GetStorageBackend())

	t.Setenv("STORAGE_BACKEND", "floppy")
	require.Equal(t, config.StorageBolt, config.New().GetStorageBackend())
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example"))
	require.True(t, origins.IsAllowedOrigin("https://b.example"))
	require.False(t, origins.IsAllowedOrigin("https://c.example"))
	require.Equal(t, "https://a.example, https://b.example", origins.String())
}
