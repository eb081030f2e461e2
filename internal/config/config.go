package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	DBDriver        string
	MySQLDSN        string
	SQLitePath      string
	ResetDB         bool
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	ClientOrigin    string
	TrustedProxies  []string
	PostmarkToken   string
	MailFrom        string
	LogLevel        string
	LogFormat       string
	SwaggerHost     string
	ShutdownTimeout time.Duration
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/catalog?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"),
		SQLitePath:      getEnv("SQLITE_PATH", "catalog.db"),
		ResetDB:         os.Getenv("RESET_DB") == "true",
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),
		PostmarkToken:   os.Getenv("POSTMARK_SERVER_TOKEN"),
		MailFrom:        getEnv("MAIL_FROM", "noreply@localhost"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
