package config

import (
	"os"
	"strconv"
	"time"

	"github.com/qs-lzh/concert-storefront/internal/util"
)

const (
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

type Config struct {
	Addr         string
	Env          string
	APIBaseURL   string
	SessionStore string
	SessionTTL   time.Duration
	CookieSecure bool
	DatabaseDSN  string
	CacheURL     string
	MQURL        string

	// ConsumeActivity drains the activity queue in this process.
	ConsumeActivity bool
}

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}
	return &Config{
		Addr:            getEnv("ADDR", ":4000"),
		Env:             getEnv("APP_ENV", "production"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8080/api"),
		SessionStore:    getEnv("SESSION_STORE", SessionStoreRedis),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", "168h"),
		CookieSecure:    getEnvAsBool("COOKIE_SECURE", false),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		CacheURL:        getEnv("CACHE_URL", "localhost:6379"),
		MQURL:           os.Getenv("RABBIT_MQ_URL"),
		ConsumeActivity: getEnvAsBool("CONSUME_ACTIVITY", false),
	}, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if duration, err := time.ParseDuration(getEnv(key, defaultValue)); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
