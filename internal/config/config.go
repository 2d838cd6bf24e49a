package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Reporting
	ReportWindowMonths int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "flotilla"),
		DBPassword: getEnv("DB_PASSWORD", "flotilla"),
		DBName:     getEnv("DB_NAME", "flotilla"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Trailing window for monthly investor reports
	config.ReportWindowMonths = 6
	if v := os.Getenv("REPORT_WINDOW_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			config.ReportWindowMonths = n
		} else {
			log.Printf("Warning: invalid REPORT_WINDOW_MONTHS value '%s', falling back to 6\n", v)
		}
	}

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
