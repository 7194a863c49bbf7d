package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application-level configuration
type Config struct {
	// Upstream dataset
	SourceURL    string
	FetchTimeout int // seconds

	// Processed-data store
	DataDir string

	// Run-history database
	RunDBPath string

	// Refresh pipeline
	ValidateWorkers int
	CleanWorkers    int
	RollingWindow   int // days, for smoothed series

	// Dashboard
	ListenAddr string
	CacheTTL   int // seconds before the dashboard re-reads the store
}

// Load reads configuration from environment variables or falls back to
// defaults. A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SourceURL:       getEnv("SOURCE_URL", "https://covid.ourworldindata.org/data/owid-covid-data.csv"),
		FetchTimeout:    getEnvInt("FETCH_TIMEOUT_SECONDS", 300),
		DataDir:         getEnv("DATA_DIR", "data"),
		RunDBPath:       getEnv("RUN_DB_PATH", "refresh.db"),
		ValidateWorkers: getEnvInt("VALIDATE_WORKERS", 3),
		CleanWorkers:    getEnvInt("CLEAN_WORKERS", 2),
		RollingWindow:   getEnvInt("ROLLING_WINDOW_DAYS", 7),
		ListenAddr:      getEnv("LISTEN_ADDR", ":8090"),
		CacheTTL:        getEnvInt("CACHE_TTL_SECONDS", 3600),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
