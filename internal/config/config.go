package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Store backends for newsletter signups and inquiry logs.
const (
	BackendNone     = "none"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Supabase SupabaseConfig
	Logger   LoggerConfig
	Catalog  CatalogConfig
	S3       S3Config
	Inquiry  InquiryConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// StoreConfig selects where signups and inquiries are written.
type StoreConfig struct {
	Backend string
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
	AutoMigrate     bool
}

// SupabaseConfig holds the REST endpoint and service key of a Supabase
// project.
type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
}

// Configured reports whether both the URL and the key are set.
func (c SupabaseConfig) Configured() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.ServiceRoleKey) != ""
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// CatalogConfig lists the catalogue files merged at start-up.
type CatalogConfig struct {
	Paths []string
}

// S3Config holds AWS S3 configuration for catalogue files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// RedisConfig holds the shared cart storage address. Empty means the
// in-memory profile.
type RedisConfig struct {
	Addr string
}

// ContactConfig holds the sales contact used in order messages.
type ContactConfig struct {
	Name   string
	Number string
}

// CLIConfig holds the cartctl defaults. Command-line flags override them.
type CLIConfig struct {
	APIURL  string
	Redis   RedisConfig
	Contact ContactConfig
	Catalog CatalogConfig
}

// InquiryConfig holds inquiry log settings.
type InquiryConfig struct {
	TTL time.Duration
}

var logLevels = []string{"debug", "info", "warn", "error"}

var defaultCatalogPaths = []string{
	"data/catalog/phones.json",
	"data/catalog/accessories.json",
}

// LoadCLI reads the cartctl defaults from environment variables.
func LoadCLI() CLIConfig {
	return CLIConfig{
		APIURL: getEnv("HOPE_API_URL", ""),
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Contact: ContactConfig{
			Name:   getEnv("CONTACT_NAME", "Wandile"),
			Number: getEnv("CONTACT_NUMBER", "0815909191"),
		},
		Catalog: CatalogConfig{
			Paths: getEnvAsList("CATALOG_PATHS", defaultCatalogPaths),
		},
	}
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendSupabase)),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "hopestore"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Catalog: CatalogConfig{
			Paths: getEnvAsList("CATALOG_PATHS", defaultCatalogPaths),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "af-south-1"),
			Prefix:  getEnv("S3_PREFIX", "catalog/"),
		},
		Inquiry: InquiryConfig{
			TTL: getEnvAsDuration("INQUIRY_TTL", 3*time.Hour),
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

	switch c.Store.Backend {
	case BackendNone, BackendSupabase:
		// Missing Supabase credentials are reported per request, not here.
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be none, postgres, or supabase)", c.Store.Backend)
	}

	if !slices.Contains(logLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if len(c.Catalog.Paths) == 0 {
		return errors.New("at least one catalogue path is required")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return errors.New("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return errors.New("S3 region is required when S3 is enabled")
		}
	}

	if c.Inquiry.TTL <= 0 {
		return errors.New("inquiry TTL must be positive")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	checks := []struct {
		failed bool
		msg    string
	}{
		{c.Host == "", "database host is required"},
		{c.Port < 1 || c.Port > 65535, fmt.Sprintf("invalid database port: %d", c.Port)},
		{c.User == "", "database user is required"},
		{c.Database == "", "database name is required"},
		{c.MaxConnections < 1, "database max connections must be at least 1"},
		{c.MinConnections < 1, "database min connections must be at least 1"},
		{c.MinConnections > c.MaxConnections, "database min connections cannot exceed max connections"},
	}
	for _, check := range checks {
		if check.failed {
			return errors.New(check.msg)
		}
	}
	return nil
}

// ConnectionString returns the PostgreSQL URL with the credentials escaped.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Address returns the listen address.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAs parses key with parse. Unset or unparsable values yield
// defaultValue.
func getEnvAs[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := parse(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvAsInt(key string, defaultValue int) int {
	return getEnvAs(key, defaultValue, strconv.Atoi)
}

func getEnvAsBool(key string, defaultValue bool) bool {
	return getEnvAs(key, defaultValue, strconv.ParseBool)
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvAs(key, defaultValue, time.ParseDuration)
}

// getEnvAsList splits a comma-separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
