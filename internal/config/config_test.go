package config_test

import (
	"testing"
	"time"

	"github.com/sigo-dev/sigo/internal/config"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("POWERBI_TENANT_ID", "tenant")
	t.Setenv("POWERBI_CLIENT_ID", "client")
	t.Setenv("POWERBI_CLIENT_SECRET", "client-secret")
}

func TestNew_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8000", cfg.ServerAddr())
	require.Equal(t, config.DefaultTokenTTL, cfg.Auth.TokenTTL)
	require.Contains(t, cfg.Database.DSN(), "dbname=sigo")
	require.Contains(t, cfg.Database.DSN(), "sslmode=disable")
}

func TestNew_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DATABASE_NAME", "sigo_test")
	t.Setenv("AUTH_TOKEN_TTL", "1h")

	cfg, err := config.New()
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Contains(t, cfg.Database.DSN(), "dbname=sigo_test")
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestNew_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("POWERBI_TENANT_ID", "tenant")
	t.Setenv("POWERBI_CLIENT_ID", "client")
	t.Setenv("POWERBI_CLIENT_SECRET", "client-secret")

	_, err := config.New()
	require.Error(t, err)
}
