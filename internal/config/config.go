package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Postgres Postgres `validate:"required"`
	Redis    Redis    `validate:"required"`
	Kafka    Kafka

	JWT     JWT     `validate:"required"`
	Gateway Gateway `validate:"required"`

	Cache Cache
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,numeric"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type Redis struct {
	Addr string `validate:"required,hostname_port"`
}

// Kafka configures the order-event producer. Empty Brokers disables publishing.
type Kafka struct {
	Brokers      []string      `validate:"omitempty,dive,hostname_port"`
	Topic        string        `validate:"required_with=Brokers"`
	BatchTimeout time.Duration `validate:"gte=0"`
}

type JWT struct {
	Secret string        `validate:"required,min=16"`
	TTL    time.Duration `validate:"required,gt=0"`
}

type Gateway struct {
	BaseURL   string `validate:"required,url"`
	KeyID     string `validate:"required"`
	KeySecret string `validate:"required"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "storefront"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: Redis{
			Addr: env("REDIS_ADDR", "localhost:6379"),
		},

		Kafka: Kafka{
			Brokers:      splitNonEmpty(env("KAFKA_BROKERS", "")),
			Topic:        env("KAFKA_TOPIC", "order-events"),
			BatchTimeout: envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		JWT: JWT{
			Secret: env("JWT_SECRET", ""),
			TTL:    envDuration("JWT_TTL", 7*24*time.Hour),
		},

		Gateway: Gateway{
			BaseURL:   env("GATEWAY_BASE_URL", "https://api.razorpay.com"),
			KeyID:     env("GATEWAY_KEY_ID", ""),
			KeySecret: env("GATEWAY_KEY_SECRET", ""),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
