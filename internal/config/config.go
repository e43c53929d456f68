package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/event-rsvp/internal/constants"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	BaseURL  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	SessionStore  string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string

	TokenSecret   string
	ActivationTTL time.Duration

	Mail    MailConfig
	Storage StorageConfig
}

// MailConfig holds SMTP settings. An empty Host logs mail instead of sending it.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// StorageConfig selects where uploaded event images live.
type StorageConfig struct {
	Driver          string
	MediaDir        string
	MediaURL        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "eventuser"),
		DBPassword: getEnv("DB_PASSWORD", "eventpassword"),
		DBName:     getEnv("DB_NAME", "events"),
		DBPath:     getEnv("DB_PATH", "events.db"),

		SessionStore:  getEnv("SESSION_STORE", "redis"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),

		TokenSecret:   getEnv("TOKEN_SECRET", "default-token-secret-change-me"),
		ActivationTTL: getEnvDuration("ACTIVATION_TOKEN_TTL", constants.DefaultActivationTTL),

		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "noreply@example.com"),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "local"),
			MediaDir:        getEnv("MEDIA_DIR", "media"),
			MediaURL:        getEnv("MEDIA_URL", "/media/"),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "event-images"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
