package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Persistence
	DatabaseURL string

	// Redis (HTTP rate limiting; optional)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Text generation providers
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Image generation providers
	HuggingFaceAPIKey string
	HuggingFaceModel  string
	ReplicateAPIToken string
	ReplicateVersion  string

	// Generated image storage
	UploadsDir          string
	UploadsPublicPrefix string
	ImageDataURI        bool
	ImageRetentionHours int

	// Generation defaults
	DefaultMaxLength int
	Temperature      float64
	MaxOutputTokens  int

	// HTTP rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
		HuggingFaceModel:  getEnv("HUGGINGFACE_MODEL", "stabilityai/stable-diffusion-xl-base-1.0"),
		ReplicateAPIToken: getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateVersion:  getEnv("REPLICATE_MODEL_VERSION", ""),

		UploadsDir:          getEnv("UPLOADS_DIR", "./public/uploads"),
		UploadsPublicPrefix: getEnv("UPLOADS_PUBLIC_PREFIX", "/uploads"),
		ImageDataURI:        getEnvBool("IMAGE_DATA_URI", false),
		ImageRetentionHours: getEnvInt("IMAGE_RETENTION_HOURS", 72),

		DefaultMaxLength: getEnvInt("DEFAULT_MAX_LENGTH", 280),
		Temperature:      getEnvFloat64("GENERATION_TEMPERATURE", 0.7),
		MaxOutputTokens:  getEnvInt("GENERATION_MAX_TOKENS", 2048),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required - set it in .env file")
	}

	return cfg, nil
}

// HasTextProvider reports whether at least one text generation backend has
// credentials. Absence is not fatal at startup - generation requests fail with
// a configuration error instead.
func (c *Config) HasTextProvider() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
