package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	JWTExpiryMin int

	DefaultCurrency     string
	SafeDealTimeoutDays int
	SweepIntervalSec    int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:             getEnv("APP_PORT", "8080"),
		AppMode:             getEnv("APP_MODE", "debug"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "zattar"),
		DBPort:              getEnv("DB_PORT", "5432"),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		JWTSecret:           getEnv("JWT_SECRET", "change-me"),
		JWTExpiryMin:        getEnvAsInt("JWT_EXPIRY_MIN", 30),
		DefaultCurrency:     getEnv("DEFAULT_CURRENCY", "KZT"),
		SafeDealTimeoutDays: getEnvAsInt("SAFE_DEAL_TIMEOUT_DAYS", 7),
		SweepIntervalSec:    getEnvAsInt("SWEEP_INTERVAL_SEC", 300),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
