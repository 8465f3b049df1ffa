package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DBDriver    string
	MySQLDSN    string
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
	LogLevel    string

	// BaseURL prefixes links embedded in outgoing emails.
	BaseURL  string
	MailFrom string

	// MaxFailedLogins is the number of consecutive failures that locks an account.
	MaxFailedLogins int
	// TokenValidity is how long recovery and confirmation tokens stay redeemable.
	TokenValidity      time.Duration
	TokenSweepInterval time.Duration

	// AuthRatePerMinute limits requests to the public auth endpoints per client IP.
	AuthRatePerMinute int
	AuthBurst         int

	// ResetDB drops every table on startup before migrating.
	ResetDB bool
	// AdminEmail and AdminPassword are used by the seed command.
	AdminEmail    string
	AdminPassword string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:           getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/academy?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath:         getEnv("SQLITE_PATH", "academy.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@localhost"),
		MaxFailedLogins:    getEnvInt("MAX_FAILED_LOGINS", 5),
		TokenValidity:      time.Duration(getEnvInt("TOKEN_VALIDITY_SECONDS", 86400)) * time.Second,
		TokenSweepInterval: getEnvDuration("TOKEN_SWEEP_INTERVAL", time.Hour),
		AuthRatePerMinute:  getEnvInt("AUTH_RATE_PER_MINUTE", 30),
		AuthBurst:          getEnvInt("AUTH_BURST", 10),
		ResetDB:            os.Getenv("RESET_DB") == "true",
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
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
