package config

import (
	"os"
	"time"
)

// ImpersonationTTL is fixed and short: impersonation sessions are an audited
// escape hatch, not a working mode. It is intentionally not configurable per
// call.
const ImpersonationTTL = 15 * time.Minute

// Server captures process-level configuration.
type Server struct {
	Addr             string
	DatabaseURL      string
	RedisURL         string
	KafkaBrokers     string
	EventTopic       string
	JWTSigningKey    string
	OperatorTokenTTL time.Duration
	Environment      string
	LogLevel         string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             envOr("KURSPANEL_ADDR", ":8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		EventTopic:       envOr("EVENT_TOPIC", "kurspanel.license-events"),
		JWTSigningKey:    os.Getenv("JWT_SIGNING_KEY"),
		OperatorTokenTTL: 8 * time.Hour,
		Environment:      envOr("ENVIRONMENT", "development"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
	}

	if cfg.JWTSigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	if ttl := os.Getenv("OPERATOR_TOKEN_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			cfg.OperatorTokenTTL = duration
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
