package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:50051", cfg.GRPCAddr())
	assert.Equal(t, 10*time.Second, cfg.GRPCRequestTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 20, cfg.DBMaxOpenConns)
	assert.Equal(t, 10, cfg.DBMaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxIdleTime)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesAndAliases(t *testing.T) {
	t.Setenv("SASB_GRPC_PORT", "6000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SASB_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("OPS_ADDR", "127.0.0.1:9999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
}

func TestLoad_GRPCAddrOverridesHostAndPort(t *testing.T) {
	t.Setenv("GRPC_ADDR", "127.0.0.1:7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.GRPCHost)
	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, "127.0.0.1:7000", cfg.GRPCAddr())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("SASB_GRPC_REQUEST_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grpc.request_timeout")
	})

	t.Run("grpc addr", func(t *testing.T) {
		t.Setenv("SASB_GRPC_ADDR", "localhost")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grpc.addr")
	})
}

func TestLoad_OpsServerCanBeDisabled(t *testing.T) {
	t.Setenv("SASB_HTTP_ADDR", "off")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.HTTPAddr)
}
