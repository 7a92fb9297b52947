package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, read from the environment with
// an optional .env file.
type Config struct {
	Port         string
	DBPath       string
	RevealWindow time.Duration
}

// Load reads the configuration. Missing values fall back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("PLUMP_DB", "./plump.db"),
		RevealWindow: 3 * time.Second,
	}

	if ms := os.Getenv("PLUMP_REVEAL_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n >= 0 {
			cfg.RevealWindow = time.Duration(n) * time.Millisecond
		} else {
			log.Printf("Ignoring invalid PLUMP_REVEAL_MS value %q", ms)
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
