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
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL
	PostgresURI string

	// Flight schedule API
	FlightAPIURL          string
	FlightAPIClientID     string
	FlightAPIClientSecret string
	FlightAPITokenURL     string
	FlightAPITimeout      time.Duration
	FlightScheduleTTL     time.Duration

	// Workflows
	WorkflowIdleTimeout time.Duration
	FlightLookupTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "dispatch"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", "host=localhost user=postgres dbname=dispatch sslmode=disable"),

		FlightAPIURL:          getEnv("FLIGHT_API_URL", "http://localhost:9090"),
		FlightAPIClientID:     getEnv("FLIGHT_API_CLIENT_ID", ""),
		FlightAPIClientSecret: getEnv("FLIGHT_API_CLIENT_SECRET", ""),
		FlightAPITokenURL:     getEnv("FLIGHT_API_TOKEN_URL", ""),
		FlightAPITimeout:      getEnvAsDuration("FLIGHT_API_TIMEOUT", 10*time.Second),
		FlightScheduleTTL:     getEnvAsDuration("FLIGHT_SCHEDULE_CACHE_TTL", 15*time.Minute),

		WorkflowIdleTimeout: getEnvAsDuration("WORKFLOW_IDLE_TIMEOUT", 2*time.Hour),
		FlightLookupTimeout: getEnvAsDuration("FLIGHT_LOOKUP_TIMEOUT", 15*time.Second),
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

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
