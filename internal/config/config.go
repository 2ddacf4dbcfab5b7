package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/storefront/internal/domain"
	"golang.org/x/text/currency"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port            int
	Env             string
	DatabaseURL     string
	StoreDriver     string
	CORSOrigins     []string
	LogLevel        string
	Currency        currency.Unit
	ShutdownTimeout time.Duration
}

func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function, os.Getenv in production.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	port, err := strconv.Atoi(get("PORT", "5000"))
	if err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("PORT[%s] is not a valid port", getenv("PORT"))
	}

	cur, err := domain.ParseCurrency(get("STORE_CURRENCY", "USD"))
	if err != nil {
		return Config{}, fmt.Errorf("STORE_CURRENCY: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := Config{
		Port:            port,
		Env:             get("APP_ENV", EnvDevelopment),
		DatabaseURL:     get("DATABASE_URL", ""),
		StoreDriver:     get("STORE_DRIVER", DriverPostgres),
		CORSOrigins:     splitList(get("CORS_ORIGIN", "http://localhost:3000")),
		LogLevel:        get("LOG_LEVEL", "info"),
		Currency:        cur,
		ShutdownTimeout: shutdownTimeout,
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER[%s] is not one of %s, %s", cfg.StoreDriver, DriverPostgres, DriverMemory)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
