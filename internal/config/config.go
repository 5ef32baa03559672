package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	LogLevel                slog.Level
	CORSOrigins             []string

	StoreBackend      string
	DatabaseURL       string
	DBMaxConns        int32
	DBMinConns        int32
	DBConnectAttempts uint64
	SeedAdminPassword string

	SessionBackend      string
	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisRetention      time.Duration

	KeepAliveInterval time.Duration
}

// Load reads the optional env files (".env" when none are given) and then the
// process environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		LogLevel:                getLevel("LOG_LEVEL", slog.LevelInfo),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),

		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres)),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:        int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:        int32(getInt("DB_MIN_CONNS", 1)),
		DBConnectAttempts: uint64(max(getInt("DB_CONNECT_ATTEMPTS", 5), 1)),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),

		SessionBackend:      strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendCookie)),
		SessionSecret:       strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:          getDuration("SESSION_TTL", 24*time.Hour),
		SessionCookieSecure: getBool("SESSION_COOKIE_SECURE", false),
		RedisAddr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getInt("REDIS_DB", 0),
		RedisRetention:      getDuration("REDIS_SESSION_RETENTION", 48*time.Hour),

		KeepAliveInterval: getDuration("KEEPALIVE_INTERVAL", 5*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", StoreBackendPostgres)
		}
		if c.DBMaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q", StoreBackendPostgres, StoreBackendMemory)
	}

	switch c.SessionBackend {
	case SessionBackendCookie:
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required when SESSION_BACKEND=%s", SessionBackendCookie)
		}
	case SessionBackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty when SESSION_BACKEND=%s", SessionBackendRedis)
		}
		if c.RedisRetention < c.SessionTTL {
			return fmt.Errorf("REDIS_SESSION_RETENTION must not be shorter than SESSION_TTL")
		}
	case SessionBackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of %q, %q, %q",
			SessionBackendCookie, SessionBackendRedis, SessionBackendMemory)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.KeepAliveInterval <= 0 {
		return fmt.Errorf("KEEPALIVE_INTERVAL must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}

	return level
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
