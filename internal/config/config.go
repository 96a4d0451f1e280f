package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the file metadata store.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds settings for the content document store.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the blob backend used for uploaded files.
type StorageConfig struct {
	Driver   string // "local" or "minio"
	LocalDir string
	MinIO    MinIOConfig
	MaxBytes int64
}

// LLMConfig configures the OpenAI-compatible completion client.
type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SummaryModel string
	Temperature  float64
	Timeout      time.Duration
}

// RateLimitConfig configures the request limiter. An empty RedisAddr keeps the limiter in memory.
type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
}

// AuthConfig holds the signing settings for login tokens.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// ScraperConfig configures outbound page fetches.
type ScraperConfig struct {
	RPS       float64
	Timeout   time.Duration
	UserAgent string
	// MaxBytes caps the size of a fetched page body.
	MaxBytes int64
	// AllowPrivate permits fetching loopback, private and link-local addresses.
	AllowPrivate bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env       string
	LogLevel  string
	Port      string
	Mongo     MongoConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Scraper   ScraperConfig
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Validate reports missing values the server cannot start without.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URL is required"))
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "minio" {
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Storage.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if !c.IsDevelopment() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over defaults.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &AppConfig{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Port:     v.GetString("PORT"),
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URL"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT_SEC")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			LocalDir: v.GetString("STORAGE_LOCAL_DIR"),
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
			MinIO: MinIOConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
		},
		LLM: LLMConfig{
			APIKey:       v.GetString("OPENAI_API_KEY"),
			BaseURL:      v.GetString("OPENAI_BASE_URL"),
			Model:        v.GetString("LLM_MODEL"),
			SummaryModel: v.GetString("LLM_SUMMARY_MODEL"),
			Temperature:  v.GetFloat64("LLM_TEMPERATURE"),
			Timeout:      time.Duration(v.GetInt("LLM_TIMEOUT_SEC")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			Window:        time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SEC")) * time.Second,
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  time.Duration(v.GetInt("JWT_TTL_MIN")) * time.Minute,
		},
		Scraper: ScraperConfig{
			RPS:          v.GetFloat64("SCRAPER_RPS"),
			Timeout:      time.Duration(v.GetInt("SCRAPER_TIMEOUT_SEC")) * time.Second,
			UserAgent:    v.GetString("SCRAPER_USER_AGENT"),
			MaxBytes:     v.GetInt64("SCRAPER_MAX_BYTES"),
			AllowPrivate: v.GetBool("SCRAPER_ALLOW_PRIVATE"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "3000")

	v.SetDefault("MONGODB_DATABASE", "semantiai")
	v.SetDefault("MONGODB_TIMEOUT_SEC", 10)

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)

	v.SetDefault("LLM_MODEL", "gpt-4o")
	v.SetDefault("LLM_SUMMARY_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_TEMPERATURE", 0.3)
	v.SetDefault("LLM_TIMEOUT_SEC", 60)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SEC", 1)

	v.SetDefault("JWT_TTL_MIN", 60)

	v.SetDefault("SCRAPER_RPS", 2)
	v.SetDefault("SCRAPER_TIMEOUT_SEC", 30)
	v.SetDefault("SCRAPER_USER_AGENT", "semantiapi/1.0")
	v.SetDefault("SCRAPER_MAX_BYTES", 5<<20)
	v.SetDefault("SCRAPER_ALLOW_PRIVATE", false)
}
