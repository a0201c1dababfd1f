// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GCPConfig holds the service-account identity and token-exchange settings.
type GCPConfig struct {
	ServiceAccountEmail string // issuer of the signed assertion
	ServiceAccountKey   string // RSA private key PEM; "\n" escapes allowed
	TokenAudience       string // identity-provider token endpoint, also the `aud` claim
	GrantType           string // OAuth grant type for the assertion exchange
}

// Validate checks that the GCP configuration is complete.
func (g *GCPConfig) Validate() error {
	if g.ServiceAccountEmail == "" {
		return fmt.Errorf("GCP_SERVICE_ACCOUNT_EMAIL is required")
	}
	if g.ServiceAccountKey == "" {
		return fmt.Errorf("GCP_SERVICE_ACCOUNT_KEY is required")
	}
	if g.TokenAudience == "" {
		return fmt.Errorf("GCP_TOKEN_AUD is required")
	}
	return nil
}

// BigQueryConfig holds the warehouse target and the scope requested for it.
type BigQueryConfig struct {
	Scope        string // OAuth scope for BigQuery access
	ProjectID    string // GCP project that owns the dataset
	DatasetTable string // "<dataset>.<table>" target for inserts and selects
	Location     string // query job location
}

// Validate checks that the BigQuery configuration is complete.
func (b *BigQueryConfig) Validate() error {
	if b.ProjectID == "" {
		return fmt.Errorf("BQ_PROJECT_ID is required")
	}
	if b.DatasetTable == "" {
		return fmt.Errorf("BQ_DATASET_TABLE is required")
	}
	return nil
}

// Config holds the configuration for the trends gateway.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	// Credential cache backend. When RedisAddr is empty an in-process
	// cache is used instead.
	RedisAddr     string
	RedisPassword string

	// APIKey, when set, is required in the X-API-Key header of every request.
	APIKey string

	// Outbound HTTP timeout for identity-provider and BigQuery calls.
	HTTPTimeout time.Duration

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	GCP      GCPConfig
	BigQuery BigQueryConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Env:           os.Getenv("ENV"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		APIKey:        os.Getenv("API_KEY"),
		GCP: GCPConfig{
			ServiceAccountEmail: os.Getenv("GCP_SERVICE_ACCOUNT_EMAIL"),
			ServiceAccountKey:   os.Getenv("GCP_SERVICE_ACCOUNT_KEY"),
			TokenAudience:       os.Getenv("GCP_TOKEN_AUD"),
			GrantType:           os.Getenv("GCP_GRANT_TYPE"),
		},
		BigQuery: BigQueryConfig{
			Scope:        os.Getenv("BQ_SCOPE"),
			ProjectID:    os.Getenv("BQ_PROJECT_ID"),
			DatasetTable: os.Getenv("BQ_DATASET_TABLE"),
			Location:     os.Getenv("BQ_LOCATION"),
		},
	}

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.GCP.GrantType == "" {
		cfg.GCP.GrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	}
	if cfg.BigQuery.Scope == "" {
		cfg.BigQuery.Scope = "https://www.googleapis.com/auth/bigquery"
	}
	if cfg.BigQuery.Location == "" {
		cfg.BigQuery.Location = "US"
	}

	if err := cfg.GCP.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.BigQuery.Validate(); err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		cfg.Warnings = append(cfg.Warnings, "REDIS_ADDR not set — tokens are cached in-process only")
	}
	if cfg.APIKey == "" {
		cfg.Warnings = append(cfg.Warnings, "API_KEY not set — endpoints are unauthenticated")
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("API_KEY must be set in production (ENV=production)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
