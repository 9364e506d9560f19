package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort          string
	DatabaseType        string
	DatabasePath        string
	DatabaseURL         string
	StoreKey            string
	CorruptionThreshold int
	ManifestPath        string
	Environment         string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first when
// present.
func Load() *Config {
	// Missing .env is fine; real environment variables win either way.
	_ = godotenv.Load()

	return &Config{
		ServerPort:          getEnv("PORT", "8080"),
		DatabaseType:        getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:        getEnv("DATABASE_PATH", "./data/examtrack.db"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		StoreKey:            getEnv("STORE_KEY", "study-statistics"),
		CorruptionThreshold: getEnvInt("CORRUPTION_THRESHOLD", 10),
		ManifestPath:        getEnv("MANIFEST_PATH", "./data/manifest.json"),
		Environment:         getEnv("ENVIRONMENT", "development"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
