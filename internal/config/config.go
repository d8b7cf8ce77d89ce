package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	UseMemoryQueue bool
	WorkerCount    int
	DatabaseURL    string

	AWSRegion           string
	AWSEndpointOverride string
	MessageQueueURL     string

	BedrockModelID          string
	BedrockEmbeddingModelID string

	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIEmbeddingModel string

	GeminiAPIKey string
	GeminiModel  string

	GenerationTimeout time.Duration
	EmbeddingTimeout  time.Duration
	MaxTokens         int
	Temperature       float64
	TopP              float64

	RedisAddr     string
	RedisPassword string

	CardDataPath    string
	ApplicationLink string
	RetrievalTopK   int

	ActiveOffer           string
	OfferShowOnHesitation bool
	OfferShowOnDecline    bool
	OfferMaxAttempts      int

	InteractionLogBuffer int

	AdminJWTSecret string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		UseMemoryQueue: getEnvAsBool("USE_MEMORY_QUEUE", false),
		WorkerCount:    getEnvAsInt("WORKER_COUNT", 2),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		MessageQueueURL:     getEnv("MESSAGE_QUEUE_URL", ""),

		BedrockModelID:          getEnv("BEDROCK_MODEL_ID", ""),
		BedrockEmbeddingModelID: getEnv("BEDROCK_EMBEDDING_MODEL_ID", ""),

		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", 30*time.Second),
		EmbeddingTimeout:  getEnvAsDuration("EMBEDDING_TIMEOUT", 10*time.Second),
		MaxTokens:         getEnvAsInt("GENERATION_MAX_TOKENS", 512),
		Temperature:       getEnvAsFloat("GENERATION_TEMPERATURE", 0.8),
		TopP:              getEnvAsFloat("GENERATION_TOP_P", 0.92),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CardDataPath:    getEnv("CARD_DATA_PATH", "configs/card_data.json"),
		ApplicationLink: getEnv("APPLICATION_LINK", "https://jupiter.money/edge-plus-upi-rupay-credit-card/"),
		RetrievalTopK:   getEnvAsInt("RETRIEVAL_TOP_K", 5),

		ActiveOffer:           strings.TrimSpace(getEnv("ACTIVE_FOMO_OFFER", "high_value")),
		OfferShowOnHesitation: getEnvAsBool("FOMO_SHOW_ON_HESITATION", true),
		OfferShowOnDecline:    getEnvAsBool("FOMO_SHOW_ON_DECLINE", true),
		OfferMaxAttempts:      getEnvAsInt("FOMO_MAX_ATTEMPTS", 1),

		InteractionLogBuffer: getEnvAsInt("INTERACTION_LOG_BUFFER", 256),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
