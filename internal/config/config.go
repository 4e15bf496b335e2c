// Package config loads the service configuration from the environment and
// an optional .env file. The Config is built once at startup and passed
// down explicitly.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	// DBPath is the SQLite file, used when DatabaseURL is empty.
	DBPath      string
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	LogFormat   string
	CEP         CEPConfig
	// TaxonomyFile optionally replaces the built-in category taxonomy.
	TaxonomyFile string
	JWT          JWTConfig
	DevSeed      bool
}

// CEPConfig configures the postal-code lookup.
type CEPConfig struct {
	APIURL    string
	Timeout   time.Duration
	CachePath string
}

// JWTConfig enables bearer authentication when Secret is set.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// Enabled reports whether requests must carry a token.
func (j JWTConfig) Enabled() bool { return j.Secret != "" }

// Backend names the storage backend the config selects.
func (c *Config) Backend() string {
	if c.DatabaseURL != "" {
		return "postgres"
	}
	return "sqlite"
}

// Load reads the environment after loading envPath, or ./.env when no path
// is given. A missing default .env is not an error.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	timeout, err := parseDurationEnv("CEP_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:      getEnvOrDefault("DB_PATH", "fluxo_caixa.db"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:    getEnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
		CEP: CEPConfig{
			APIURL:    getEnvOrDefault("CEP_API_URL", "https://viacep.com.br/ws"),
			Timeout:   timeout,
			CachePath: os.Getenv("CEP_CACHE_PATH"),
		},
		TaxonomyFile: os.Getenv("TAXONOMY_FILE"),
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_HS256_SECRET"),
			Issuer:   os.Getenv("JWT_ISSUER"),
			Audience: os.Getenv("JWT_AUDIENCE"),
		},
		DevSeed: parseBool(os.Getenv("DEV_SEED")),
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	var problems []string
	if c.DatabaseURL == "" && strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH or DATABASE_URL must be set")
	}
	if c.HTTPAddr == "" {
		problems = append(problems, "HTTP_ADDR must not be empty")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.CEP.Timeout <= 0 {
		problems = append(problems, "CEP_TIMEOUT must be positive")
	}
	if c.JWT.Enabled() && len(c.JWT.Secret) < 16 {
		problems = append(problems, "JWT_HS256_SECRET must have at least 16 characters")
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Level maps LogLevel to a slog level; unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseDurationEnv accepts a Go duration ("3s") or a number of seconds.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return d, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
