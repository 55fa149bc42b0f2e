package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces environment overrides, e.g. FEDERATION_PORT. The
// unprefixed names (PORT, DATABASE_URL) are honoured as well.
const envPrefix = "federation"

type ctxKey string

const configContextKey ctxKey = "federation.config"

// WithContext stores cfg in ctx
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

// FromContext returns the configuration stored by WithContext, or nil
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configContextKey).(*Config)
	return cfg
}

// Config holds all application configuration
type Config struct {
	DatabaseURL     string        `yaml:"databaseUrl"     envconfig:"DATABASE_URL"`
	MaxConnections  int           `yaml:"maxConnections"  envconfig:"DATABASE_MAX_CONNECTIONS"`
	Port            string        `yaml:"port"            envconfig:"PORT"`
	JWTSecret       string        `yaml:"jwtSecret"       envconfig:"JWT_SECRET"`
	TokenTTL        time.Duration `yaml:"tokenTtl"        envconfig:"TOKEN_TTL"`
	LogLevel        string        `yaml:"logLevel"        envconfig:"LOG_LEVEL"`
	MetricsEnabled  bool          `yaml:"metricsEnabled"  envconfig:"METRICS_ENABLED"`
	Tracing         bool          `yaml:"tracing"         envconfig:"TRACING"`
	PrintSheetSize  int           `yaml:"printSheetSize"  envconfig:"PRINT_SHEET_SIZE"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		DatabaseURL:     "federation.db",
		MaxConnections:  10,
		Port:            "8080",
		JWTSecret:       "change-me",
		TokenTTL:        24 * time.Hour,
		LogLevel:        "info",
		MetricsEnabled:  true,
		PrintSheetSize:  20,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load builds the configuration from, in increasing precedence: defaults,
// the optional YAML file, a .env file in the working directory and the
// environment
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Default()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	if c.PrintSheetSize < 1 {
		return fmt.Errorf("print sheet size must be at least 1, got %d", c.PrintSheetSize)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
