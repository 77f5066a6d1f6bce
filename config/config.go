package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all configuration for the safety assessment service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server configuration
	Port           string
	AllowedOrigins string

	// Object storage configuration
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	S3Bucket       string
	S3Region       string
	PresignExpiry  time.Duration

	// Claude (vision) configuration
	ClaudeAPIKey string
	ClaudeModel  string

	// Groq (chat) configuration
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	// Analysis configuration
	AssessmentPrompt string
	ChatPrompt       string
	InferenceTimeout time.Duration

	// RabbitMQ configuration (optional; service runs without a broker)
	AMQPURL              string
	AMQPExchange         string
	AssessmentRoutingKey string

	// Logging
	LogLevel string
}

const defaultAssessmentPrompt = `Analyze the image for earthquake safety risks. ` +
	`Respond with exactly three labeled lines:
Description: <summary of safety features and potential concerns>
Score: <safety score from 0 to 100, formatted as N/100>
Magnitude Survivability: <highest earthquake magnitude the structure could survive, e.g. 7.5>`

const defaultChatPrompt = `You are an earthquake preparedness assistant. Answer the user's ` +
	`question concisely. End your reply with a final line of the form "Timing: before", ` +
	`"Timing: during" or "Timing: after" indicating which phase of an earthquake the advice applies to.`

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBName:     getEnv("DB_NAME", "quakesafe"),

		// Server defaults
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		// Object storage defaults
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:    getBoolEnv("MINIO_USE_SSL", false),
		S3Bucket:       getEnv("S3_BUCKET", "quakesafe-images"),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		PresignExpiry:  getDurationEnv("PRESIGN_EXPIRY", 5*time.Minute),

		// Claude defaults
		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-7-sonnet-20250219"),

		// Groq defaults
		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),

		// Analysis defaults
		AssessmentPrompt: getEnv("ASSESSMENT_PROMPT", defaultAssessmentPrompt),
		ChatPrompt:       getEnv("CHAT_PROMPT", defaultChatPrompt),
		InferenceTimeout: getDurationEnv("INFERENCE_TIMEOUT", 60*time.Second),

		// RabbitMQ defaults
		AMQPURL:              getEnv("AMQP_URL", ""),
		AMQPExchange:         getEnv("AMQP_EXCHANGE", "quakesafe"),
		AssessmentRoutingKey: getEnv("ASSESSMENT_ROUTING_KEY", "assessment.created"),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "1" || strings.EqualFold(value, "true")
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
