// Package config loads server configuration from the environment, an
// optional .env file and built-in development defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the API server and tools.
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	// RequiredServices is a comma separated list of optional backends
	// (redis, elasticsearch, storage) whose absence aborts startup.
	RequiredServices string

	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Search   SearchConfig
	Tracing  TracingConfig
	Limits   LimitsConfig
}

// DatabaseConfig selects and addresses the relational store.
type DatabaseConfig struct {
	Driver   string // postgres | sqlite
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return d.Name + ".db"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DevJWTSecret signs tokens outside production when JWT_SECRET is unset.
const DevJWTSecret = "dev-secret-change-me"

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// StorageConfig configures the blob upload backend.
type StorageConfig struct {
	Driver        string // s3 | minio | none
	Region        string
	Bucket        string
	Endpoint      string
	PublicBaseURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	UploadTimeout time.Duration
	UploadDir     string
	MaxUploadMB   int64
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

type SearchConfig struct {
	ElasticsearchURL string
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SamplingRate float64
}

type LimitsConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	StatsCacheTTL     time.Duration
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFile:     v.GetString("LOG_FILE"),

		RequiredServices: v.GetString("REQUIRED_SERVICES"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Region:         v.GetString("AWS_REGION"),
			Bucket:         v.GetString("AWS_BUCKET"),
			Endpoint:       v.GetString("S3_ENDPOINT"),
			PublicBaseURL:  v.GetString("CDN_BASE_URL"),
			MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
			UploadTimeout:  v.GetDuration("UPLOAD_TIMEOUT"),
			UploadDir:      v.GetString("UPLOAD_DIR"),
			MaxUploadMB:    v.GetInt64("MAX_UPLOAD_MB"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Search: SearchConfig{
			ElasticsearchURL: v.GetString("ELASTICSEARCH_URL"),
		},
		Tracing: TracingConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SamplingRate: v.GetFloat64("OTEL_SAMPLING_RATE"),
		},
		Limits: LimitsConfig{
			RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
			StatsCacheTTL:     v.GetDuration("STATS_CACHE_TTL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = DevJWTSecret
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8787")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "server.log")

	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "vidshare")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_TTL", 24*time.Hour)

	v.SetDefault("STORAGE_DRIVER", "s3")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("UPLOAD_TIMEOUT", 60*time.Second)
	v.SetDefault("UPLOAD_DIR", "/tmp/vidshare_uploads")
	v.SetDefault("MAX_UPLOAD_MB", 512)

	v.SetDefault("REDIS_PORT", "6379")

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("OTEL_SAMPLING_RATE", 1.0)

	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("STATS_CACHE_TTL", 30*time.Second)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "s3", "minio", "none":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.Storage.UploadTimeout <= 0 {
		return fmt.Errorf("UPLOAD_TIMEOUT must be positive")
	}
	return nil
}
