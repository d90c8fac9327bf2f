package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	NotifierMemory = "memory"
	NotifierRedis  = "redis"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// Storage
	StoreDriver string
	DatabaseURL string
	DBMigrate   bool

	// Redis: change notifier + known-video memo
	RedisURL      string
	Notifier      string
	KnownVideoTTL time.Duration

	// RabbitMQ domain events
	RabbitURL      string
	RabbitExchange string

	// Admin tokens are issued by the external identity provider
	JWTSecret string
	JWTIssuer string

	// Identity
	IdentityLookupURL string
	IdentityFallback  string

	// Playback
	StreamBaseURL   string
	StreamS3Bucket  string
	AWSRegion       string
	S3Endpoint      string
	S3AccessKeyID   string
	S3SecretKey     string
	S3UsePathStyle  bool
	StreamLinkTTL   time.Duration
	ReactionKinds   string
	ReconcileDelay  time.Duration
	SessionIdleTime time.Duration
	LiveOrigins     []string

	// Rate Limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Tracing
	OTelEnabled  bool
	OTelEndpoint string

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8085")

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres))
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.DBMigrate = getBool("DB_MIGRATE", false)

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.Notifier = strings.ToLower(getEnv("NOTIFIER", ""))
	if cfg.Notifier == "" {
		cfg.Notifier = NotifierMemory
		if cfg.RedisURL != "" {
			cfg.Notifier = NotifierRedis
		}
	}
	cfg.KnownVideoTTL = getDuration("KNOWN_VIDEO_TTL", 24*time.Hour)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "stream.reactions")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.IdentityLookupURL = getEnv("IDENTITY_LOOKUP_URL", "")
	cfg.IdentityFallback = getEnv("IDENTITY_FALLBACK", "127.0.0.1")

	cfg.StreamBaseURL = strings.TrimRight(getEnv("STREAM_BASE_URL", "http://localhost:8080"), "/")
	cfg.StreamS3Bucket = getEnv("STREAM_S3_BUCKET", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.S3Endpoint = getEnv("STREAM_S3_ENDPOINT", "")
	cfg.S3AccessKeyID = getEnv("STREAM_S3_ACCESS_KEY_ID", "")
	cfg.S3SecretKey = getEnv("STREAM_S3_SECRET_ACCESS_KEY", "")
	cfg.S3UsePathStyle = getBool("STREAM_S3_PATH_STYLE", false)
	cfg.StreamLinkTTL = getDuration("STREAM_LINK_TTL", 15*time.Minute)
	cfg.ReactionKinds = getEnv("REACTION_KINDS", "like,love,laugh,wow,sad,angry")
	cfg.ReconcileDelay = getDuration("RECONCILE_DELAY", 100*time.Millisecond)
	cfg.SessionIdleTime = getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	cfg.LiveOrigins = getList("LIVE_ORIGIN_PATTERNS")

	// Rate Limiting Defaults: 30 writes / 1 min per IP
	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_LIMIT", 30)
	cfg.RLWindow = getDuration("RL_WINDOW", 1*time.Minute)

	cfg.OTelEnabled = getBool("OTEL_ENABLED", false)
	cfg.OTelEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	// validation
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("missing DATABASE_URL")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	switch cfg.Notifier {
	case NotifierMemory:
	case NotifierRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("missing REDIS_URL (required when NOTIFIER=redis)")
		}
	default:
		return nil, fmt.Errorf("invalid NOTIFIER %q", cfg.Notifier)
	}
	if cfg.AppEnv != "dev" && cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing RABBIT_URL (required when APP_ENV != dev)")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}
