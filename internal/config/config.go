package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Blocklist BlocklistConfig
	Affiliate AffiliateConfig
	Email     EmailConfig
	Fraud     FraudConfig
	Geo       GeoConfig
	Tracking  TrackingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// RedisConfig holds the redis connection used for cache-tag invalidation.
type RedisConfig struct {
	Enabled bool
	URL     string
}

// BlocklistConfig holds the bulk blocklist file sources. Merchants upload
// gzipped blocklist files to S3; local paths are the fallback source.
type BlocklistConfig struct {
	S3Enabled bool
	Bucket    string
	Region    string
	Keys      []string // S3 keys or local file paths
}

// AffiliateConfig holds the commission rules: tier level -> percent.
type AffiliateConfig struct {
	CommissionLevels map[int]float64
	CookieTTL        time.Duration
}

// EmailConfig holds the transactional email provider settings.
type EmailConfig struct {
	Enabled    bool
	Endpoint   string
	APIKey     string
	From       string
	AdminEmail string
}

// FraudConfig holds the external fraud-scoring API settings.
type FraudConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// GeoConfig holds the IP geolocation resolver settings.
type GeoConfig struct {
	Enabled  bool
	Endpoint string
}

// TrackingConfig holds the server-side purchase tracking settings.
type TrackingConfig struct {
	Enabled  bool
	Endpoint string
	PixelID  string
	Token    string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	levels, err := parseCommissionLevels(getEnv("AFFILIATE_COMMISSION_LEVELS", "1:5,2:7.5,3:10"))
	if err != nil {
		return nil, fmt.Errorf("invalid AFFILIATE_COMMISSION_LEVELS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "framex_orders"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Redis: RedisConfig{
			Enabled: getEnvAsBool("REDIS_ENABLED", false),
			URL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Blocklist: BlocklistConfig{
			S3Enabled: getEnvAsBool("BLOCKLIST_S3_ENABLED", false),
			Bucket:    getEnv("BLOCKLIST_S3_BUCKET", ""),
			Region:    getEnv("BLOCKLIST_S3_REGION", "ap-southeast-1"),
			Keys:      splitNonEmpty(getEnv("BLOCKLIST_KEYS", "")),
		},
		Affiliate: AffiliateConfig{
			CommissionLevels: levels,
			CookieTTL:        time.Duration(getEnvAsInt("AFFILIATE_COOKIE_TTL_HOURS", 720)) * time.Hour,
		},
		Email: EmailConfig{
			Enabled:    getEnvAsBool("EMAIL_ENABLED", false),
			Endpoint:   getEnv("EMAIL_ENDPOINT", ""),
			APIKey:     getEnv("EMAIL_API_KEY", ""),
			From:       getEnv("EMAIL_FROM", ""),
			AdminEmail: getEnv("EMAIL_ADMIN", ""),
		},
		Fraud: FraudConfig{
			Enabled:  getEnvAsBool("FRAUD_CHECK_ENABLED", false),
			Endpoint: getEnv("FRAUD_CHECK_ENDPOINT", ""),
			APIKey:   getEnv("FRAUD_CHECK_API_KEY", ""),
			Timeout:  time.Duration(getEnvAsInt("FRAUD_CHECK_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Geo: GeoConfig{
			Enabled:  getEnvAsBool("GEO_ENABLED", false),
			Endpoint: getEnv("GEO_ENDPOINT", ""),
		},
		Tracking: TrackingConfig{
			Enabled:  getEnvAsBool("TRACKING_ENABLED", false),
			Endpoint: getEnv("TRACKING_ENDPOINT", ""),
			PixelID:  getEnv("TRACKING_PIXEL_ID", ""),
			Token:    getEnv("TRACKING_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required when redis is enabled")
	}

	if c.Blocklist.S3Enabled {
		if c.Blocklist.Bucket == "" {
			return fmt.Errorf("blocklist S3 bucket is required when S3 is enabled")
		}
		if c.Blocklist.Region == "" {
			return fmt.Errorf("blocklist S3 region is required when S3 is enabled")
		}
	}

	if len(c.Affiliate.CommissionLevels) == 0 {
		return fmt.Errorf("at least one affiliate commission level is required")
	}

	if c.Email.Enabled && c.Email.Endpoint == "" {
		return fmt.Errorf("email endpoint is required when email is enabled")
	}

	if c.Fraud.Enabled {
		if c.Fraud.Endpoint == "" {
			return fmt.Errorf("fraud-check endpoint is required when fraud checks are enabled")
		}
		if c.Fraud.Timeout <= 0 {
			return fmt.Errorf("fraud-check timeout must be positive")
		}
	}

	if c.Geo.Enabled && c.Geo.Endpoint == "" {
		return fmt.Errorf("geo endpoint is required when geolocation is enabled")
	}

	if c.Tracking.Enabled && (c.Tracking.Endpoint == "" || c.Tracking.PixelID == "") {
		return fmt.Errorf("tracking endpoint and pixel id are required when tracking is enabled")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// parseCommissionLevels parses "1:5,2:7.5,3:10" into a level->percent map.
func parseCommissionLevels(s string) (map[int]float64, error) {
	levels := make(map[int]float64)
	for _, pair := range splitNonEmpty(s) {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed level %q", pair)
		}
		level, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || level < 1 {
			return nil, fmt.Errorf("malformed level %q", pair)
		}
		percent, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || percent < 0 {
			return nil, fmt.Errorf("malformed percent %q", pair)
		}
		levels[level] = percent
	}
	return levels, nil
}

// Levels returns the configured tier levels in ascending order.
func (c *AffiliateConfig) Levels() []int {
	out := make([]int, 0, len(c.CommissionLevels))
	for level := range c.CommissionLevels {
		out = append(out, level)
	}
	sort.Ints(out)
	return out
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
