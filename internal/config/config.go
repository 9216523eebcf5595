package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration loaded from the environment.
type Config struct {
	Port      string
	MongoURI  string
	DBName    string
	JWTSecret string

	// Timezone is the IANA zone name used for every calendar-day
	// computation (schedule due checks, dedup day bounds, streaks).
	Timezone string

	Location *time.Location
}

// LoadConfig reads configuration from a .env file and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:    getEnv("DB_NAME", "growth_platform"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		Timezone:  getEnv("TIMEZONE", "UTC"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Invalid TIMEZONE %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}
	cfg.Location = loc

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
