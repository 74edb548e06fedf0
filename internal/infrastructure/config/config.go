package config

import (
	"fmt"
	"os"

	"github.com/finmarkets/marketstore/internal/domain"
)

type Config struct {
	DBDriver     string
	DBDSN        string
	ServerPort   string
	ServerHost   string
	UpsertPolicy domain.UpsertPolicy
	LogLevel     string
}

// DefaultSQLiteDSN enables foreign keys on every pooled connection and
// stores timestamps in a round-trippable format.
const DefaultSQLiteDSN = "file:marketstore.db?_pragma=foreign_keys(1)&_time_format=sqlite"

func Load() (*Config, error) {
	driver := getEnvOrDefault("DB_DRIVER", "sqlite")
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		if driver == "postgres" {
			return nil, fmt.Errorf("DB_DSN environment variable is required for postgres")
		}
		dsn = DefaultSQLiteDSN
	}

	policy := domain.UpsertPolicy(getEnvOrDefault("UPSERT_POLICY", string(domain.UpsertReplace)))
	if !policy.IsValid() {
		return nil, fmt.Errorf("invalid UPSERT_POLICY: %s", policy)
	}

	return &Config{
		DBDriver:     driver,
		DBDSN:        dsn,
		ServerPort:   getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:   getEnvOrDefault("SERVER_HOST", "localhost"),
		UpsertPolicy: policy,
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
