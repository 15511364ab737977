package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_GeminiConfig(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Setenv("GEMINI_MODEL", "gemini-test")
	os.Setenv("GEMINI_RATE_LIMIT_RPM", "120")
	defer func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("GEMINI_MODEL")
		os.Unsetenv("GEMINI_RATE_LIMIT_RPM")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
	assert.Equal(t, 120, cfg.Gemini.RateLimitRPM)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("INTENT_CACHE_SIZE")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, 512, cfg.Intent.CacheSize)
	assert.Equal(t, 86400, cfg.Intent.CacheTTLSeconds)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "dormdeck", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=dormdeck sslmode=disable", cfg.DatabaseDSN())
}
