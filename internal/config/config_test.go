package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"HTTP_PORT", "DATABASE_URL", "CATALOGUE_URL", "CATALOGUE_RETRY_MAX", "MER_CAP", "SHARED_CREATED_BY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.CatalogueURL != "" {
		t.Errorf("CatalogueURL = %q, want empty", cfg.CatalogueURL)
	}
	if cfg.CatalogueRetryMax != 3 {
		t.Errorf("CatalogueRetryMax = %d, want 3", cfg.CatalogueRetryMax)
	}
	if cfg.CatalogueRetryBaseDelay != time.Second {
		t.Errorf("CatalogueRetryBaseDelay = %v, want 1s", cfg.CatalogueRetryBaseDelay)
	}
	if cfg.CatalogueCacheTTL != 5*time.Minute {
		t.Errorf("CatalogueCacheTTL = %v, want 5m", cfg.CatalogueCacheTTL)
	}
	if cfg.MERCap.String() != "0.015" {
		t.Errorf("MERCap = %s, want 0.015", cfg.MERCap)
	}
	if cfg.SharedCreatedBy != "team" {
		t.Errorf("SharedCreatedBy = %q, want team", cfg.SharedCreatedBy)
	}
	if cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() should be false by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CATALOGUE_URL", "https://project.supabase.co")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOGUE_RETRY_MAX", "10")
	t.Setenv("CATALOGUE_RETRY_BASE_DELAY", "5s")
	t.Setenv("CATALOGUE_RATE_LIMIT", "2.5")
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet")
	t.Setenv("GOOGLE_CREDENTIALS_JSON", "{}")

	cfg := Load()

	if cfg.CatalogueURL != "https://project.supabase.co" {
		t.Errorf("CatalogueURL = %q, want override", cfg.CatalogueURL)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.CatalogueRetryMax != 10 {
		t.Errorf("CatalogueRetryMax = %d, want 10", cfg.CatalogueRetryMax)
	}
	if cfg.CatalogueRetryBaseDelay != 5*time.Second {
		t.Errorf("CatalogueRetryBaseDelay = %v, want 5s", cfg.CatalogueRetryBaseDelay)
	}
	if cfg.CatalogueRateLimit != 2.5 {
		t.Errorf("CatalogueRateLimit = %v, want 2.5", cfg.CatalogueRateLimit)
	}
	if !cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() should be true")
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("CATALOGUE_RETRY_MAX", "not-a-number")
	t.Setenv("CATALOGUE_RETRY_BASE_DELAY", "invalid-duration")
	t.Setenv("CATALOGUE_RATE_LIMIT", "fast")
	t.Setenv("MER_CAP", "-1")

	cfg := Load()

	if cfg.CatalogueRetryMax != 3 {
		t.Errorf("CatalogueRetryMax = %d, want default 3 on invalid input", cfg.CatalogueRetryMax)
	}
	if cfg.CatalogueRetryBaseDelay != time.Second {
		t.Errorf("CatalogueRetryBaseDelay = %v, want default 1s on invalid input", cfg.CatalogueRetryBaseDelay)
	}
	if cfg.CatalogueRateLimit != 5 {
		t.Errorf("CatalogueRateLimit = %v, want default 5 on invalid input", cfg.CatalogueRateLimit)
	}
	if cfg.MERCap.String() != "0.015" {
		t.Errorf("MERCap = %s, want default on invalid input", cfg.MERCap)
	}
}

func TestMERCapPercent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.02", "0.02"},
		{"2%", "0.02"},
		{"1.25%", "0.0125"},
	}

	for _, tt := range tests {
		t.Setenv("MER_CAP", tt.in)
		if got := Load().MERCap.String(); got != tt.want {
			t.Errorf("MER_CAP=%q: got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("HTTP_PORT=7070\nADMIN_API_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HTTP_PORT", "")
	os.Unsetenv("HTTP_PORT")
	t.Setenv("ADMIN_API_KEY", "from-env")

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))
	cfg := Load()

	if cfg.HTTPPort != "7070" {
		t.Errorf("HTTPPort = %q, want value from file", cfg.HTTPPort)
	}
	if cfg.AdminAPIKey != "from-env" {
		t.Errorf("AdminAPIKey = %q, existing env must win", cfg.AdminAPIKey)
	}
}

func TestLoadNonPositiveDurationsUseDefaults(t *testing.T) {
	t.Setenv("CATALOGUE_REFRESH_INTERVAL", "0s")
	t.Setenv("CATALOGUE_CACHE_TTL", "-1m")
	t.Setenv("CATALOGUE_RETRY_BASE_DELAY", "0")

	cfg := Load()

	if cfg.CatalogueRefreshInterval != 15*time.Minute {
		t.Errorf("CatalogueRefreshInterval = %v, want default 15m", cfg.CatalogueRefreshInterval)
	}
	if cfg.CatalogueCacheTTL != 5*time.Minute {
		t.Errorf("CatalogueCacheTTL = %v, want default 5m", cfg.CatalogueCacheTTL)
	}
	if cfg.CatalogueRetryBaseDelay != time.Second {
		t.Errorf("CatalogueRetryBaseDelay = %v, want default 1s", cfg.CatalogueRetryBaseDelay)
	}
}
