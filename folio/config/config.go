package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Upstream completion service (Azure AI Foundry, OpenAI-compatible).
	UpstreamEndpoint    string
	UpstreamAPIKey      string
	UpstreamModel       string
	UpstreamAPIVersion  string
	UpstreamTimeout     time.Duration
	UpstreamTemperature float64

	ChatMaxQuestions   int
	ChatQuotaWindow    time.Duration
	ChatQuotaStore     string
	ChatQuotaStoreSize int
	ChatSystemPrompt   string
	// ChatAllowedOrigins are host patterns allowed to open the chat websocket
	// cross-origin, e.g. "aakash.dev" or "*.vercel.app".
	ChatAllowedOrigins []string

	DatabaseURL string
	DBDriver    string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string
	JWTSecret   string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOSecure    bool

	ContentFile string
	StaticDir   string
	LogDir      string

	AnalyticsQueueSize int
	AnalyticsRate      float64
}

// LoadConfig reads the process environment. A .env file in the working
// directory is loaded first; variables already set are never overwritten.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8000"),

		UpstreamEndpoint:    strings.TrimRight(getEnv("AZURE_OPENAI_ENDPOINT", ""), "/"),
		UpstreamAPIKey:      getEnv("AZURE_OPENAI_KEY", ""),
		UpstreamModel:       getEnv("AZURE_OPENAI_MODEL", "DeepSeek-V3"),
		UpstreamAPIVersion:  getEnv("AZURE_OPENAI_API_VERSION", "2024-05-01-preview"),
		UpstreamTimeout:     getDuration("UPSTREAM_TIMEOUT", 60*time.Second),
		UpstreamTemperature: getFloat("AZURE_OPENAI_TEMPERATURE", 0.7),

		ChatMaxQuestions:   getInt("CHAT_MAX_QUESTIONS", 3),
		ChatQuotaWindow:    getDuration("CHAT_QUOTA_WINDOW", 24*time.Hour),
		ChatQuotaStore:     getEnv("CHAT_QUOTA_STORE", "memory"),
		ChatQuotaStoreSize: getInt("CHAT_QUOTA_STORE_SIZE", 10000),
		ChatSystemPrompt:   getEnv("CHAT_SYSTEM_PROMPT", ""),
		ChatAllowedOrigins: getList("CHAT_ALLOWED_ORIGINS"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DBUser:      getEnv("DB_USER", ""),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBHost:      getEnv("DB_HOST", ""),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", ""),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "folio-assets"),
		MinIOSecure:    getBool("MINIO_SECURE", false),

		ContentFile: getEnv("CONTENT_FILE", ""),
		StaticDir:   getEnv("STATIC_DIR", ""),
		LogDir:      getEnv("LOG_DIR", "./logs"),

		AnalyticsQueueSize: getInt("ANALYTICS_QUEUE_SIZE", 256),
		AnalyticsRate:      getFloat("ANALYTICS_RATE", 5),
	}
}

// DatabaseConfigured reports whether enough settings exist to open a database.
func (c Config) DatabaseConfigured() bool {
	if c.DBDriver == "sqlite" {
		return c.DBName != ""
	}
	return c.DatabaseURL != "" || (c.DBHost != "" && c.DBName != "")
}

// DSN builds the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBName
	}
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c Config) MinIOConfigured() bool {
	return c.MinIOEndpoint != ""
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

// getList splits a comma-separated variable, dropping empty entries.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
