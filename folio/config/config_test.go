package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.test/models/")
	t.Setenv("CHAT_MAX_QUESTIONS", "")
	t.Setenv("CHAT_QUOTA_WINDOW", "")

	cfg := LoadConfig()

	assert.Equal(t, "https://example.test/models", cfg.UpstreamEndpoint)
	assert.Equal(t, "DeepSeek-V3", cfg.UpstreamModel)
	assert.Equal(t, "2024-05-01-preview", cfg.UpstreamAPIVersion)
	assert.Equal(t, 3, cfg.ChatMaxQuestions)
	assert.Equal(t, 24*time.Hour, cfg.ChatQuotaWindow)
	assert.Equal(t, "memory", cfg.ChatQuotaStore)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CHAT_MAX_QUESTIONS", "5")
	t.Setenv("CHAT_QUOTA_WINDOW", "1h")
	t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")
	t.Setenv("MINIO_SECURE", "true")

	cfg := LoadConfig()

	assert.Equal(t, 5, cfg.ChatMaxQuestions)
	assert.Equal(t, time.Hour, cfg.ChatQuotaWindow)
	assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.MinIOSecure)
}

func TestDSN(t *testing.T) {
	cfg := Config{DBDriver: "postgres", DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "folio", DBSSLMode: "disable"}
	assert.True(t, cfg.DatabaseConfigured())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=folio sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@db/folio"
	assert.Equal(t, "postgres://u:p@db/folio", cfg.DSN())

	sqlite := Config{DBDriver: "sqlite", DBName: "folio.db"}
	assert.True(t, sqlite.DatabaseConfigured())
	assert.Equal(t, "folio.db", sqlite.DSN())

	assert.False(t, Config{DBDriver: "postgres"}.DatabaseConfigured())
}

func TestLoadConfig_TemperatureAndOrigins(t *testing.T) {
	t.Setenv("AZURE_OPENAI_TEMPERATURE", "0")
	t.Setenv("CHAT_ALLOWED_ORIGINS", " aakash.dev, ,*.vercel.app ")

	cfg := LoadConfig()

	assert.Equal(t, 0.0, cfg.UpstreamTemperature)
	assert.Equal(t, []string{"aakash.dev", "*.vercel.app"}, cfg.ChatAllowedOrigins)
}
