package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	BaseURL    string
	JWTSecret  string
	AccessTTL  time.Duration
	CORSOrigin string
	// Scoring oracle (OpenAI-compatible chat completions)
	OracleURL    string
	OracleAPIKey string
	OracleModel  string
	// Profile store (management-API backend)
	ProfileAPIURL       string
	ProfileClientID     string
	ProfileClientSecret string
	// Profile store (Postgres backend, takes precedence when set)
	DatabaseURL string
	// Redis Configuration
	RedisURL string
	// Meilisearch todo search
	MeiliURL       string
	MeiliMasterKey string
	// Score-audit object storage
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() Config {
	return Config{
		Addr:       getenv("API_ADDR", ":8790"),
		BaseURL:    getenv("PETROCK_BASE_URL", "http://localhost:8790"),
		JWTSecret:  getenv("PETROCK_JWT_SECRET", "petrock-dev-secret"),
		AccessTTL:  time.Duration(getenvInt("PETROCK_ACCESS_TTL_SECONDS", 86400)) * time.Second,
		CORSOrigin: getenv("PETROCK_CORS_ORIGIN", "*"),

		OracleURL:    getenv("ORACLE_URL", "https://api.openai.com/v1"),
		OracleAPIKey: getenv("ORACLE_API_KEY", ""),
		OracleModel:  getenv("ORACLE_MODEL", "gpt-4o-mini"),

		ProfileAPIURL:       getenv("PROFILE_API_URL", ""),
		ProfileClientID:     getenv("PROFILE_CLIENT_ID", ""),
		ProfileClientSecret: getenv("PROFILE_CLIENT_SECRET", ""),
		DatabaseURL:         getenv("DATABASE_URL", ""),

		// Redis - empty means sessions are kept in process memory
		RedisURL: getenv("REDIS_URL", ""),

		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "petrock-score-audit"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
