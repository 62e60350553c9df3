package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL      string
	JWTSecret        string
	Port             string
	SnapshotSchedule string
	DashboardWeeks   int
}

func Load() *Config {
	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "okrtrack.db"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:             getEnv("PORT", "8080"),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 0 * * MON"),
		DashboardWeeks:   getEnvInt("DASHBOARD_WEEKS", 8),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
