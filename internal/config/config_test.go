package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "federation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.PrintSheetSize)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
port: "9090"
databaseUrl: "postgres://localhost/federation"
tokenTtl: 2h
logLevel: debug
printSheetSize: 10
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/federation", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 10, cfg.PrintSheetSize)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.MaxConnections)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "port: \"9090\"\njwtSecret: from-file\n")
	t.Setenv("FEDERATION_PORT", "7070")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("FEDERATION_METRICS_ENABLED", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "bad log level", file: "logLevel: loud\n"},
		{name: "empty sheet", file: "printSheetSize: 0\n"},
		{name: "negative ttl", env: map[string]string{"FEDERATION_TOKEN_TTL": "-1h"}},
		{name: "malformed yaml", file: "port: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	assert.Nil(t, config.FromContext(context.Background()))

	cfg := config.Default()
	ctx := config.WithContext(context.Background(), cfg)
	assert.Same(t, cfg, config.FromContext(ctx))
}
