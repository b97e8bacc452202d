// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	CORSOrigins        []string

	// Storage
	DatabaseURL string

	// NATS settings (empty URL disables event publishing)
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Admin auth
	AdminPassword string
	JWTSecret     string
	JWTExpiration time.Duration

	// Messaging platform
	PageAccessToken string
	VerifyToken     string
	AppSecret       string
	GraphURL        string

	// LLM settings
	LLMProvider     string
	LLMModel        string
	LLMBaseURL      string
	LLMTimeout      time.Duration
	AnthropicAPIKey string
	OpenAIAPIKey    string

	// Image host
	ImgBBAPIKey string

	// Commerce
	DeliveryCharge      float64
	CatalogLimit        int
	BusinessProfilePath string
	Profile             BusinessProfile

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
		CORSOrigins:        getListEnv("CORS_ORIGINS", []string{"*"}),

		// Storage
		DatabaseURL: getEnv("DATABASE_URL", "data/urban_fashion.db"),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Admin auth
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: getDurationEnv("JWT_EXPIRATION", 7*24*time.Hour),

		// Messaging platform
		PageAccessToken: getEnv("FACEBOOK_PAGE_ACCESS_TOKEN", ""),
		VerifyToken:     getEnv("FACEBOOK_VERIFY_TOKEN", "nepali_clothing_2025"),
		AppSecret:       getEnv("FACEBOOK_APP_SECRET", ""),
		GraphURL:        getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com/v18.0"),

		// LLM
		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		LLMModel:        getEnv("LLM_MODEL", ""),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 30*time.Second),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", getEnv("EMERGENT_LLM_KEY", "")),

		// Image host
		ImgBBAPIKey: getEnv("IMGBB_API_KEY", ""),

		// Commerce
		DeliveryCharge:      getFloatEnv("DELIVERY_CHARGE", 100),
		CatalogLimit:        getIntEnv("CATALOG_LIMIT", 100),
		BusinessProfilePath: getEnv("BUSINESS_PROFILE_PATH", ""),
		Profile: BusinessProfile{
			BusinessName: getEnv("BUSINESS_NAME", "Nepal Fashion Store"),
			AgentName:    getEnv("AGENT_NAME", "Maya"),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated variable, dropping blanks.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
