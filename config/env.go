package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	AppEnv      string
	Port        string
	LogLevel    string
	StoreDriver string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	JWTSecret   string
	JWTExpiry   time.Duration
	RedisURL    string
	RedisAddr   string
	OriginURL   string

	// Client side.
	APIBaseURL         string
	APITimeout         time.Duration
	SessionDB          string
	StockCheckDelay    time.Duration
	ReviewPollInterval time.Duration
}

// LoadConfig reads .env when present and falls back to the process
// environment. The returned error only reports malformed values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("APP_PORT", getEnv("PORT", "8082")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "storefront"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		RedisURL:    os.Getenv("REDIS_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		OriginURL:   os.Getenv("ORIGIN_URL"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8082/api"),
		SessionDB:   getEnv("SESSION_DB", defaultSessionDB()),
	}

	var err error
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.StockCheckDelay, err = getDuration("STOCK_CHECK_DELAY", 800*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ReviewPollInterval, err = getDuration("REVIEW_POLL_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("800ms") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func defaultSessionDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront-session.db"
	}
	return dir + string(os.PathSeparator) + "storefront" + string(os.PathSeparator) + "session.db"
}
