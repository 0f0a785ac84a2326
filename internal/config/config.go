package config

import (
	"os"
	"strconv"
)

const defaultMaxUploadBytes = 50 << 20 // 50 MiB

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	CORSOrigins string // Comma-separated allowed origins

	// Provider selection
	AIProvider         string // diagnosis provider: openai, gemini, ollama, bedrock, rules
	TranscribeProvider string // speech-to-text provider: openai, gemini

	// Provider credentials and endpoints
	OpenAIKey     string
	GeminiKey     string
	OllamaBaseURL string

	// Model overrides; empty means each provider's default
	AIModel         string
	TranscribeModel string

	// Uploads
	MaxUploadBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		CORSOrigins:        getEnv("CORS_ORIGINS", ""),
		AIProvider:         getEnv("AI_PROVIDER", "rules"),
		TranscribeProvider: getEnv("TRANSCRIBE_PROVIDER", "openai"),
		OpenAIKey:          getEnv("OPENAI_KEY", ""),
		GeminiKey:          getEnv("GEMINI_KEY", ""),
		OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", ""),
		AIModel:            getEnv("AI_MODEL", ""),
		TranscribeModel:    getEnv("TRANSCRIBE_MODEL", ""),
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AuthTokenFor returns the credential configured for the named provider.
func (c *Config) AuthTokenFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIKey
	case "gemini":
		return c.GeminiKey
	}
	return ""
}
