package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds all service configuration loaded from .env and the environment.
type Config struct {
	Port string

	StoreDriver       string
	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	JWTSecret    string
	TokenExpiry  time.Duration
	AuthRequired bool

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	CORSOrigins       []string
	ReconcileSchedule string
	LogLevel          string
}

// LoadConfig reads the optional .env file and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment only")
	}

	return &Config{
		Port:              getenv("PORT", "5000"),
		StoreDriver:       strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getenv("MONGO_DB", "social"),
		MongoTransactions: getbool("MONGO_TRANSACTIONS", false),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenExpiry:       getduration("TOKEN_EXPIRY", 30*24*time.Hour),
		AuthRequired:      getbool("AUTH_REQUIRED", true),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		CacheTTL:          getduration("CACHE_TTL", 30*time.Second),
		CORSOrigins:       getlist("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		ReconcileSchedule: getenvAllowEmpty("RECONCILE_SCHEDULE", "@hourly"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY must be positive, got %s", c.TokenExpiry)
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI must be set for the mongo store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when REDIS_ADDR is set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvAllowEmpty distinguishes an unset variable from one explicitly set to "".
func getenvAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid boolean %q, using default %v", v, fallback)
		return fallback
	}
	return b
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid duration %q, using default %s", v, fallback)
		return fallback
	}
	return d
}

func getlist(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
