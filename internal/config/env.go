package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port                 int
	Environment          string
	MongoDBURI           string
	RedisURI             string
	JWTSecret            string
	JWTAudience          string
	LogDir               string
	OTELExporterEndpoint string
	IdempotencyTTLHours  int
}

// Load reads configuration from the environment. JWT_SECRET is the one value
// with no sane default; everything else falls back to local-development
// settings.
func Load() *Config {
	port, _ := strconv.Atoi(getEnvOrDefault("PORT", "3000"))
	idempotencyTTL, _ := strconv.Atoi(getEnvOrDefault("IDEMPOTENCY_TTL_HOURS", "24"))

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	return &Config{
		Port:                 port,
		Environment:          getEnvOrDefault("GO_ENV", "development"),
		MongoDBURI:           getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017/taskvault"),
		RedisURI:             getEnvOrDefault("REDIS_URI", "redis://localhost:6379"),
		JWTSecret:            jwtSecret,
		JWTAudience:          getEnvOrDefault("JWT_AUDIENCE", "authenticated"),
		LogDir:               getEnvOrDefault("LOG_DIR", "logs"),
		OTELExporterEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318/v1/traces"),
		IdempotencyTTLHours:  idempotencyTTL,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
