package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPPort                 string
	DatabaseURL              string
	CatalogueURL             string
	CatalogueAPIKey          string
	CatalogueRetryMax        int
	CatalogueRetryBaseDelay  time.Duration
	CatalogueRateLimit       float64
	CatalogueCacheTTL        time.Duration
	CatalogueRefreshInterval time.Duration
	AdminAPIKey              string
	SharedCreatedBy          string
	// MERCap is the recommended maximum MER as a fraction.
	MERCap                decimal.Decimal
	SheetsSpreadsheetID   string
	GoogleCredentialsJSON string
}

// LoadDotEnv loads variables from the given files (".env" when none) without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("failed to load env file", "file", f, "error", err)
			}
			continue
		}
		slog.Debug("env file loaded", "file", f)
	}
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		HTTPPort:                 envOrDefault("HTTP_PORT", "8080"),
		DatabaseURL:              envOrDefault("DATABASE_URL", ""),
		CatalogueURL:             envOrDefault("CATALOGUE_URL", ""),
		CatalogueAPIKey:          envOrDefault("CATALOGUE_API_KEY", ""),
		CatalogueRetryMax:        envOrDefaultInt("CATALOGUE_RETRY_MAX", 3),
		CatalogueRetryBaseDelay:  envOrDefaultDuration("CATALOGUE_RETRY_BASE_DELAY", 1*time.Second),
		CatalogueRateLimit:       envOrDefaultFloat("CATALOGUE_RATE_LIMIT", 5),
		CatalogueCacheTTL:        envOrDefaultDuration("CATALOGUE_CACHE_TTL", 5*time.Minute),
		CatalogueRefreshInterval: envOrDefaultDuration("CATALOGUE_REFRESH_INTERVAL", 15*time.Minute),
		AdminAPIKey:              envOrDefault("ADMIN_API_KEY", ""),
		SharedCreatedBy:          envOrDefault("SHARED_CREATED_BY", "team"),
		MERCap:                   envOrDefaultDecimal("MER_CAP", decimal.RequireFromString("0.015")),
		SheetsSpreadsheetID:      envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		GoogleCredentialsJSON:    envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

// SheetsEnabled reports whether both spreadsheet settings are present.
func (c Config) SheetsEnabled() bool {
	return c.SheetsSpreadsheetID != "" && c.GoogleCredentialsJSON != ""
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid number env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

// envOrDefaultDuration rejects zero and negative durations.
func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envOrDefaultDecimal accepts a fraction ("0.015") or a percentage ("1.5%").
func envOrDefaultDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	pct := false
	if n := len(v); n > 0 && v[n-1] == '%' {
		pct, v = true, v[:n-1]
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		slog.Warn("invalid decimal env var, using default", "key", key, "value", os.Getenv(key), "default", defaultVal)
		return defaultVal
	}
	if pct {
		d = d.Shift(-2)
	}
	return d
}
