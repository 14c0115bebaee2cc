package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the catalog service
type Config struct {
	ServiceName    string
	DatabaseDSN    string
	HTTPPort       string
	RabbitMQURL    string
	LogLevel       string
	PickupLeadDays int

	// AdminUsername/AdminPassword seed a first administrator account on
	// startup when both are set and the username is free.
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// Load reads configuration from a .env file (when present) and the
// environment. Every value has a local-development default except the
// broker URL: an empty RABBITMQ_URL disables event publishing.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServiceName:    getEnv("SERVICE_NAME", "library-catalog"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "book_catalog.db"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PickupLeadDays: getEnvInt("PICKUP_LEAD_DAYS", 3),
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@library.local"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}
