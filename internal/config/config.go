package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	RateLimit  RateLimitConfig
	Storage    StorageConfig
	Events     EventsConfig
	BcryptCost int
	LogLevel   string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr is the listen address host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	URL     string
	Name    string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type JWTConfig struct {
	Secret          string
	RefreshSecret   string
	RefreshTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled  bool
	RPS      float64
	Burst    int
	UseRedis bool
	Window   time.Duration
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether object storage was configured.
func (s StorageConfig) Enabled() bool { return s.Endpoint != "" }

type EventsConfig struct {
	ChannelPrefix string
}

// ConfigError lists every required key that was missing.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

var required = []string{"JWT_SECRET", "JWT_REFRESH_SECRET", "DATABASE_URL"}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("DATABASE_NAME", "blog")
	v.SetDefault("DATABASE_TIMEOUT", 10)
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "blog-avatars")
	v.SetDefault("EVENTS_CHANNEL_PREFIX", "blog.events.")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LOG_LEVEL", "info")

	var missing []string
	for _, k := range required {
		if strings.TrimSpace(v.GetString(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("APP_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:     v.GetString("DATABASE_URL"),
			Name:    v.GetString("DATABASE_NAME"),
			Timeout: time.Duration(v.GetInt("DATABASE_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("JWT_SECRET"),
			RefreshSecret:   v.GetString("JWT_REFRESH_SECRET"),
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:      v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    v.GetInt("RATE_LIMIT_BURST"),
			UseRedis: v.GetBool("RATE_LIMIT_USE_REDIS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Events: EventsConfig{
			ChannelPrefix: v.GetString("EVENTS_CHANNEL_PREFIX"),
		},
		BcryptCost: v.GetInt("BCRYPT_COST"),
		LogLevel:   v.GetString("LOG_LEVEL"),
	}

	if cfg.JWT.Secret == cfg.JWT.RefreshSecret {
		return nil, fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
}
