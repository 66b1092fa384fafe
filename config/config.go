package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Affiliate AffiliateConfig `mapstructure:"affiliate"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging configuration. An empty level uses the
// environment's default.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ScraperConfig holds product page fetching configuration
type ScraperConfig struct {
	UserAgent         string        `mapstructure:"user_agent"`
	CrawlerUserAgent  string        `mapstructure:"crawler_user_agent"`
	MaxRedirects      int           `mapstructure:"max_redirects"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	AttemptTimeout    time.Duration `mapstructure:"attempt_timeout"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	SoftErrorMarkers  []string      `mapstructure:"soft_error_markers"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// AffiliateConfig holds the identifiers used when a request supplies none
type AffiliateConfig struct {
	AmazonTag        string `mapstructure:"amazon_tag"`
	MagazineVoceSlug string `mapstructure:"magazine_voce_slug"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory", "redis" or "none"
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds the per-client request limit
type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	Burst     int `mapstructure:"burst"`
}

// Load loads configuration from an optional .env file, environment variables
// and config files
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tomepromo/")

	// TOMEPROMO_SCRAPER_MAX_RETRIES -> scraper.max_retries
	v.SetEnvPrefix("TOMEPROMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that environment overrides are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"https://tomepromo.com.br"})
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "")

	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.crawler_user_agent", "")
	v.SetDefault("scraper.max_redirects", 5)
	v.SetDefault("scraper.max_retries", 5)
	v.SetDefault("scraper.retry_delay", "1s")
	v.SetDefault("scraper.attempt_timeout", "15s")
	v.SetDefault("scraper.max_body_bytes", 8<<20)
	v.SetDefault("scraper.soft_error_markers", []string{"errors/500", "errors/validateCaptcha"})
	v.SetDefault("scraper.requests_per_second", 0)

	v.SetDefault("affiliate.amazon_tag", "")
	v.SetDefault("affiliate.magazine_voce_slug", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.key_prefix", "tomepromo:metadata:")
	v.SetDefault("cache.ttl", "6h")

	v.SetDefault("ratelimit.per_minute", 100)
	v.SetDefault("ratelimit.burst", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Cache.Type {
	case "memory", "none":
	case "redis":
		if config.Cache.RedisAddr == "" {
			return fmt.Errorf("redis address is required when cache type is 'redis' (set TOMEPROMO_CACHE_REDIS_ADDR)")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'none', got: %s", config.Cache.Type)
	}

	if config.Scraper.MaxRetries < 1 {
		return fmt.Errorf("scraper max_retries must be at least 1, got: %d", config.Scraper.MaxRetries)
	}
	if config.Scraper.MaxRedirects < 1 {
		return fmt.Errorf("scraper max_redirects must be at least 1, got: %d", config.Scraper.MaxRedirects)
	}
	if config.Scraper.RetryDelay < 0 || config.Scraper.AttemptTimeout <= 0 {
		return fmt.Errorf("scraper retry_delay must not be negative and attempt_timeout must be positive")
	}
	if config.RateLimit.PerMinute < 0 {
		return fmt.Errorf("ratelimit per_minute must not be negative, got: %d", config.RateLimit.PerMinute)
	}

	return nil
}
