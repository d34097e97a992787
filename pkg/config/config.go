package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Data cache modes
const (
	DataCacheNone  = "none"
	DataCacheMtime = "mtime"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	OpenAI    OpenAIConfig
	Redis     RedisConfig
	HTTPCache HTTPCacheConfig
	Database  DatabaseConfig
	Typesense TypesenseConfig
	CORS      CORSConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// IsProduction reports whether error details must be hidden from clients
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DataConfig describes the flat file holding the event records
type DataConfig struct {
	EventsPath string
	Delimiter  string
	CacheMode  string
	Watch      bool
}

// DelimiterRune returns the configured field separator
func (c *DataConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// OpenAIConfig holds configuration for the text-generation upstream
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPM   int
	RateLimitBurst int
	// Consecutive failures before the breaker opens; 0 disables the breaker.
	BreakerFailures int
	BreakerCooldown time.Duration
}

// Enabled reports whether a credential is configured
func (c *OpenAIConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPCacheConfig controls the Redis-backed response cache
type HTTPCacheConfig struct {
	Enabled    bool
	TTLSeconds int
}

// DatabaseConfig holds database configuration for search analytics
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	Enabled bool
	URL     string
	APIKey  string
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 5001)),
			Env:  getEnv("APP_ENV", "development"),
		},
		Data: DataConfig{
			EventsPath: getEnv("EVENTS_CSV_PATH", "data/events.csv"),
			Delimiter:  getEnv("EVENTS_CSV_DELIMITER", ","),
			CacheMode:  strings.ToLower(getEnv("DATA_CACHE_MODE", DataCacheNone)),
			Watch:      getEnvAsBool("DATA_WATCH", false),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:         getEnvAsDuration("OPENAI_TIMEOUT", 20*time.Second),
			RateLimitRPM:    getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst:  getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
			BreakerFailures: getEnvAsInt("OPENAI_BREAKER_FAILURES", 5),
			BreakerCooldown: getEnvAsDuration("OPENAI_BREAKER_COOLDOWN", 30*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		HTTPCache: HTTPCacheConfig{
			Enabled:    getEnvAsBool("HTTP_CACHE_ENABLED", false),
			TTLSeconds: getEnvAsInt("HTTP_CACHE_TTL_SECONDS", 300),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "agri_events"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Typesense: TypesenseConfig{
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "agri-events"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Data.EventsPath) == "" {
		errs = append(errs, errors.New("events csv path is required"))
	}
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("csv delimiter must be a single character, got %q", c.Data.Delimiter))
	}
	switch c.Data.CacheMode {
	case DataCacheNone, DataCacheMtime:
	default:
		errs = append(errs, fmt.Errorf("unknown data cache mode %q", c.Data.CacheMode))
	}
	if c.OpenAI.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("openai timeout must be positive, got %s", c.OpenAI.Timeout))
	}
	if c.HTTPCache.Enabled && !c.Redis.Enabled {
		errs = append(errs, errors.New("http cache requires REDIS_ENABLED=true"))
	}
	// Cached responses are only purged by file change notifications.
	if c.HTTPCache.Enabled && !c.Data.Watch {
		errs = append(errs, errors.New("http cache requires DATA_WATCH=true"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
