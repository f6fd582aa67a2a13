package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"

	LastNameInsensitive = "insensitive"
	LastNameExact       = "exact"
)

// devSecret is only accepted when LOG_LEVEL=debug.
const devSecret = "case-portal-development-secret"

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Logging settings
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Record store settings
	StoreDriver  string `yaml:"store_driver"`
	DataDir      string `yaml:"data_dir"`
	DatabasePath string `yaml:"database_path"`

	// Cache settings
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	// Session settings
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	LastNameMatch     string        `yaml:"last_name_match"`
	SessionRevocation bool          `yaml:"session_revocation"`

	// Dashboard settings
	PaymentWindowMonths int  `yaml:"payment_window_months"`
	CourtVisitLimit     int  `yaml:"court_visit_limit"`
	ClampProgress       bool `yaml:"clamp_progress"`

	// CORS settings
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Host:                "0.0.0.0",
		Port:                "3000",
		LogLevel:            "info",
		LogFormat:           "json",
		StoreDriver:         StoreJSON,
		DataDir:             "./data",
		DatabasePath:        "./data/cases.db",
		CacheSize:           100,
		CacheTTL:            30 * time.Second,
		TokenTTL:            8 * time.Hour,
		LastNameMatch:       LastNameInsensitive,
		PaymentWindowMonths: 6,
		CourtVisitLimit:     5,
		AllowedOrigins:      []string{"*"},
	}
}

// Load reads configuration from an optional .env file, an optional YAML file
// named by CONFIG_FILE, and environment variables, in that order of precedence
// (environment wins).
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Host = getEnv("HOST", c.Host)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", c.StoreDriver))
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LastNameMatch = strings.ToLower(getEnv("LAST_NAME_MATCH", c.LastNameMatch))

	var err error
	c.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", strconv.Itoa(c.CacheSize)))
	if err != nil {
		return fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		cacheTTL, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		c.CacheTTL = time.Duration(cacheTTL) * time.Second
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		c.TokenTTL, err = time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
	}

	c.PaymentWindowMonths, err = strconv.Atoi(getEnv("PAYMENT_WINDOW_MONTHS", strconv.Itoa(c.PaymentWindowMonths)))
	if err != nil {
		return fmt.Errorf("invalid PAYMENT_WINDOW_MONTHS: %w", err)
	}

	c.CourtVisitLimit, err = strconv.Atoi(getEnv("COURT_VISIT_LIMIT", strconv.Itoa(c.CourtVisitLimit)))
	if err != nil {
		return fmt.Errorf("invalid COURT_VISIT_LIMIT: %w", err)
	}

	c.SessionRevocation, err = strconv.ParseBool(getEnv("SESSION_REVOCATION", strconv.FormatBool(c.SessionRevocation)))
	if err != nil {
		return fmt.Errorf("invalid SESSION_REVOCATION: %w", err)
	}

	c.ClampProgress, err = strconv.ParseBool(getEnv("CLAMP_PROGRESS", strconv.FormatBool(c.ClampProgress)))
	if err != nil {
		return fmt.Errorf("invalid CLAMP_PROGRESS: %w", err)
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	return nil
}

// Validate checks enum values and ranges, and fills the development secret
// when running in debug mode.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", c.StoreDriver, StoreJSON, StoreSQLite)
	}

	switch c.LastNameMatch {
	case LastNameInsensitive, LastNameExact:
	default:
		return fmt.Errorf("invalid LAST_NAME_MATCH %q: want %s or %s", c.LastNameMatch, LastNameInsensitive, LastNameExact)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid TOKEN_TTL %s: must be positive", c.TokenTTL)
	}
	if c.PaymentWindowMonths < 0 {
		return fmt.Errorf("invalid PAYMENT_WINDOW_MONTHS %d: must not be negative", c.PaymentWindowMonths)
	}
	if c.CourtVisitLimit <= 0 {
		return fmt.Errorf("invalid COURT_VISIT_LIMIT %d: must be positive", c.CourtVisitLimit)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("invalid CACHE_SIZE %d: must be positive", c.CacheSize)
	}
	// go-cache treats a zero default expiration as "never expire"
	if c.CacheTTL <= 0 {
		return fmt.Errorf("invalid CACHE_TTL %s: must be positive", c.CacheTTL)
	}

	if c.JWTSecret == "" {
		if c.LogLevel != "debug" {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWTSecret = devSecret
	}

	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimRight(strings.TrimSpace(p), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}
