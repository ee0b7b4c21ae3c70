// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Local store
	DatabasePath string

	// Recognition service
	GeminiAPIKey      string
	GeminiModel       string
	ExtractionTimeout time.Duration

	// Remote sync
	RemoteEndpoint string
	PushDebounce   time.Duration

	// Metrics
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,

		DatabasePath: getEnv("DATABASE_PATH", "flightlog.db"),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ExtractionTimeout: time.Duration(getEnvAsInt("EXTRACTION_TIMEOUT", 60)) * time.Second,

		RemoteEndpoint: getEnv("REMOTE_SYNC_ENDPOINT", ""),
		PushDebounce:   time.Duration(getEnvAsInt("REMOTE_PUSH_DEBOUNCE_MS", 1000)) * time.Millisecond,

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "flightlog"),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
