package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURI)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("STORE_BACKEND", "MONGO")
	t.Setenv("DATA_DIR", "/var/lib/openheart")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://www.example.com")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongo", cfg.StoreBackend)
	assert.Equal(t, "/var/lib/openheart", cfg.DataDir)
	assert.Equal(t, []string{"https://app.example.com", "https://www.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, "sk-test", cfg.OpenAIKey, "keys are trimmed")
}

func TestFrontendURLFallbackForOrigins(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://openheart.example.com")

	cfg := Load()
	assert.Equal(t, []string{"https://openheart.example.com"}, cfg.AllowedOrigins)
}
