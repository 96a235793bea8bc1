package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	// Session tokens: HS256 shared secret and/or RS256 keys from a JWKS endpoint
	JWTSecret string
	JWKSURL   string
	// Redis (optional L2 session cache and rate limit store)
	RedisURL      string
	RedisPassword string
	// Text generation backend
	AnthropicAPIKey  string
	AnthropicBaseURL string
	GenerationModel  string
	// Chat completion backend used for CV tailoring
	OpenAIAPIKey  string
	ChatAPIURL    string
	ChatModel     string
	ChatMaxTokens int
	ChatTimeout   time.Duration
	// Session cache
	SessionCacheTTL  time.Duration
	SessionCacheSize int
	// Rate limiting of generation endpoints, per user
	GenerationRateLimit    int
	RateLimitWindowSeconds int
	// PDF export through headless Chromium
	PDFExportEnabled bool
	// Audit events are also written to the audit_events table
	AuditLogToDB bool
}

func LoadConfig() (*Config, error) {
	// .env only exists locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: strings.TrimRight(getEnv("ANTHROPIC_BASE_URL", ""), "/"),
		GenerationModel:  getEnv("GENERATION_MODEL", "claude-sonnet-4-20250514"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		ChatAPIURL:    getEnv("CHAT_API_URL", "https://api.openai.com/v1/chat/completions"),
		ChatModel:     getEnv("CHAT_MODEL", "gpt-4o-mini"),
		ChatMaxTokens: getEnvInt("CHAT_MAX_TOKENS", 4096),
		ChatTimeout:   getEnvDuration("CHAT_TIMEOUT", 120*time.Second),

		SessionCacheTTL:  getEnvDuration("SESSION_CACHE_TTL", 5*time.Minute),
		SessionCacheSize: getEnvInt("SESSION_CACHE_SIZE", 10000),

		GenerationRateLimit:    getEnvInt("GENERATION_RATE_LIMIT", 10),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		PDFExportEnabled: getEnvBool("PDF_EXPORT_ENABLED", true),
		AuditLogToDB:     getEnvBool("AUDIT_LOG_TO_DB", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		log.Println("WARNING: neither JWT_SECRET nor JWKS_URL is set. Every authenticated request will be rejected.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Sessions and rate limits stay in process memory.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "5m") or a plain number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
