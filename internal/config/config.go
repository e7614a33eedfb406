package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/hashibank/hashi-bank-be/internal/apperr"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Storage drivers selected from the DATABASE_URL scheme.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	ServerPort       int
	DatabaseDriver   string
	DatabaseDSN      string // DSN handed to the driver, scheme stripped for sqlite
	SeedUsers        []string
	AllowedOrigins   []string
	LogLevel         string
	TotalsReportCron string // empty disables the reporter
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment")
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, apperr.Config("invalid PORT %q", portStr)
	}

	driver, dsn, err := ParseDatabaseURL(os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:       port,
		DatabaseDriver:   driver,
		DatabaseDSN:      dsn,
		SeedUsers:        splitList(getEnv("SEED_USERS", "Habib,Shitu")),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TotalsReportCron: getEnv("TOTALS_REPORT_CRON", ""),
	}, nil
}

// ParseDatabaseURL picks the storage driver from the connection string scheme.
func ParseDatabaseURL(raw string) (driver, dsn string, err error) {
	switch {
	case raw == "":
		return "", "", apperr.Config("Database configuration error: DATABASE_URL not set")
	case strings.HasPrefix(raw, "postgresql://"), strings.HasPrefix(raw, "postgres://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(raw, "sqlite://"), nil
	case strings.HasPrefix(raw, "file:"):
		return DriverSQLite, raw, nil
	default:
		return "", "", apperr.Config("Database configuration error: Invalid URL format")
	}
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
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
