// Package config loads server configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database file path.
	DBPath string

	// StaticPath is the directory the frontend is served from.
	StaticPath string

	// ResetCountdownSeconds is how long the delete countdown runs before
	// the bill data is cleared.
	ResetCountdownSeconds int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	countdown, err := intEnv("RESET_COUNTDOWN_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                  port,
		DBPath:                getEnv("DB_PATH", "./data/sharebill.db"),
		StaticPath:            getEnv("STATIC_PATH", "./static"),
		ResetCountdownSeconds: countdown,
	}, nil
}

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}
