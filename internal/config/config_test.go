package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_TOKEN_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsDev())
	require.False(t, cfg.IsProd())
	require.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
}

func TestLoadRejectsBadMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresSecretInProd(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestGetAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")

	dev := &Config{AppMode: "dev"}
	require.Equal(t, "*", dev.GetAllowedOrigins())

	prod := &Config{AppMode: "prod"}
	require.NotEqual(t, "*", prod.GetAllowedOrigins())

	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")
	require.Equal(t, "https://app.example.com", prod.GetAllowedOrigins())
}
