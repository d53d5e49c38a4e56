// Package config collects the environment-driven settings for the server.
// Values are read once at startup and passed down explicitly so components
// never reach for globals.
package config

import (
	"os"
	"strings"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port           string
	Env            string
	Version        string
	AllowedOrigins []string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	BooksAPIBaseURL string
}

// Load reads the configuration from the environment, applying defaults for
// anything unset. Call godotenv.Load first if a .env file should apply.
func Load() Config {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		Env:             getenv("ENV", "development"),
		Version:         getenv("APP_VERSION", "1.0.0"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		BooksAPIBaseURL: os.Getenv("BOOKS_API_BASE_URL"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
