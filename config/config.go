package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	API        APIConfig
	CORS       CORSConfig
	Moderation ModerationConfig
	Reply      ReplyConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type APIConfig struct {
	RateLimitSubmitsPerSec int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ModerationConfig configures the external text-safety scoring endpoint.
type ModerationConfig struct {
	APIURL   string
	APIKey   string
	Language string
}

// ReplyConfig configures the generative backend for automatic replies.
// Provider is "gemini" or "openai".
type ReplyConfig struct {
	Provider     string
	GoogleAPIKey string
	OpenAIAPIKey string
	Model        string
}

// WorkerConfig configures the auto-reply worker process.
type WorkerConfig struct {
	PollIntervalSeconds int
	Concurrency         int
	RetryDelaySeconds   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	jwtExpiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "168"))
	if err != nil {
		jwtExpiry = 168
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_SUBMITS_PER_SECOND", "5"))
	if err != nil {
		rateLimit = 5
	}

	pollInterval, err := strconv.Atoi(getEnv("WORKER_POLL_INTERVAL_SECONDS", "1"))
	if err != nil || pollInterval <= 0 {
		pollInterval = 1
	}

	concurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "4"))
	if err != nil || concurrency <= 0 {
		concurrency = 4
	}

	retryDelay, err := strconv.Atoi(getEnv("WORKER_RETRY_DELAY_SECONDS", "30"))
	if err != nil || retryDelay <= 0 {
		retryDelay = 30
	}

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "harleyposts"),
			Password: getEnv("DB_PASSWORD", "harleyposts_password"),
			DBName:   getEnv("DB_NAME", "harleyposts_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-key"),
			ExpiryHours: jwtExpiry,
		},
		API: APIConfig{
			RateLimitSubmitsPerSec: rateLimit,
		},
		CORS: CORSConfig{
			AllowedOrigins: origins,
		},
		Moderation: ModerationConfig{
			APIURL:   getEnv("MODERATION_API_URL", "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"),
			APIKey:   getEnv("MODERATION_API_KEY", ""),
			Language: getEnv("MODERATION_LANGUAGE", "en"),
		},
		Reply: ReplyConfig{
			Provider:     getEnv("REPLY_PROVIDER", "gemini"),
			GoogleAPIKey: getEnv("GOOGLE_REPLY_API_KEY", ""),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("REPLY_MODEL", ""),
		},
		Worker: WorkerConfig{
			PollIntervalSeconds: pollInterval,
			Concurrency:         concurrency,
			RetryDelaySeconds:   retryDelay,
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "change-this-secret-key" && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.Moderation.APIKey == "" && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("MODERATION_API_KEY must be set in production")
	}

	return cfg, nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
