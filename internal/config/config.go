package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsPath string

	// JWT verification. Tokens are issued by the identity service.
	JWTSecret string

	// AdminAPIKey guards operational endpoints such as classifier retraining.
	AdminAPIKey string

	// Location decides which calendar day "today" is for forecasts.
	Location *time.Location

	// Classifier
	ClassifierMethod          string
	ClassifierCorpusPath      string
	ClassifierRetrainSchedule string
	FallbackCategory          string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "tripbudget"),
		DBPassword:     getEnv("DB_PASSWORD", "tripbudget"),
		DBName:         getEnv("DB_NAME", "tripbudget"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		JWTSecret:   getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		ClassifierMethod:          getEnv("CLASSIFIER_METHOD", "bayes"),
		ClassifierCorpusPath:      getEnv("CLASSIFIER_CORPUS_PATH", ""),
		ClassifierRetrainSchedule: getEnv("CLASSIFIER_RETRAIN_SCHEDULE", ""),
		FallbackCategory:          getEnv("FALLBACK_CATEGORY", "Інше"),
	}

	tz := getEnv("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: invalid TIMEZONE value '%s', falling back to Local\n", tz)
		loc = time.Local
	}
	config.Location = loc

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
