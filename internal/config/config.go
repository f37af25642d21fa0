package config

import (
	"os"
	"strings"
)

type Config struct {
	Port           string
	Environment    string // ENV: production, development, etc.
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL

	StoreBackend string // STORE_BACKEND: "file" (default) or "mongo"
	DataDir      string // file backend: directory holding <collection>.json snapshots
	MongoURI     string // mongo backend only
	RedisURI     string // optional: stats cache + rate limiting

	AIProvider  string // AI_PROVIDER: "openai", "gemini" or "" (auto by key)
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", "file")),
		DataDir:      getEnv("DATA_DIR", "data"),
		MongoURI:     getEnv("MONGODB_URI", getEnv("MONGO_URL", "mongodb://localhost:27017/openheart")),
		RedisURI:     getEnv("REDIS_URI", ""),

		AIProvider:  strings.ToLower(getEnv("AI_PROVIDER", "")),
		OpenAIKey:   strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:   strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
