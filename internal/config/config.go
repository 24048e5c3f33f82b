package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// minSecretBytes is the smallest JWT signing secret the server will accept.
const minSecretBytes = 32

type Config struct {
	Env   string
	Port  int
	DBURL string

	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration
	BcryptCost     int

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogCacheTTL time.Duration

	OtelEndpoint string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:   env,
		Port:  port,
		DBURL: dbURL,

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "enrollment-api"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "enrollment-clients"),
		AccessTokenTTL: time.Duration(getEnvInt("JWT_EXPIRATION_MINUTES", 60)) * time.Minute,
		BcryptCost:     getEnvInt("BCRYPT_COST", 12),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CatalogCacheTTL: time.Duration(getEnvInt("CATALOG_CACHE_TTL_SECONDS", 30)) * time.Second,

		OtelEndpoint: os.Getenv("OTEL_EXPORTER_ENDPOINT"),

		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// Validate rejects configurations the server must never run with. A weak
// or missing signing secret is a startup failure, not a per-request one.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < minSecretBytes {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes, got %d", minSecretBytes, len(c.JWTSecret))
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("config: JWT_EXPIRATION_MINUTES must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST out of range: %d", c.BcryptCost)
	}
	return nil
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "enrollment")
	pass := getEnv("DB_PASSWORD", "enrollment")
	name := getEnv("DB_NAME", "enrollment")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
