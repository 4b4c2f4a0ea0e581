package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	AdminToken        string        `mapstructure:"ADMIN_TOKEN"`

	// Storage: "mongo" or "memory".
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Rating aggregation.
	RatingLocker            string        `mapstructure:"RATING_LOCKER"` // "memory" or "redis"
	RatingQueue             string        `mapstructure:"RATING_QUEUE"`  // "inprocess" or "redis"
	RatingLockTTL           time.Duration `mapstructure:"RATING_LOCK_TTL"`
	RatingMaxAttempts       int           `mapstructure:"RATING_MAX_ATTEMPTS"`
	RatingWorkerConcurrency int           `mapstructure:"RATING_WORKER_CONCURRENCY"`

	// In-process recompute retries, used when RATING_QUEUE is "inprocess".
	RatingRetryAttempts int           `mapstructure:"RATING_RETRY_ATTEMPTS"`
	RatingRetryBackoff  time.Duration `mapstructure:"RATING_RETRY_BACKOFF"`

	// Nearby query defaults.
	NearbyDefaultRadiusKm float64 `mapstructure:"NEARBY_DEFAULT_RADIUS_KM"`
	NearbyDefaultLimit    int     `mapstructure:"NEARBY_DEFAULT_LIMIT"`
	NearbyMaxLimit        int     `mapstructure:"NEARBY_MAX_LIMIT"`
}

var AppConfig Config

// LoadConfig reads config.yaml from "." or "./config", overlays environment variables and
// stores the result in AppConfig.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	AppConfig = cfg
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "washx")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_LOCK_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("RATING_LOCKER", "memory")
	v.SetDefault("RATING_QUEUE", "inprocess")
	v.SetDefault("RATING_LOCK_TTL", "10s")
	v.SetDefault("RATING_MAX_ATTEMPTS", 5)
	v.SetDefault("RATING_WORKER_CONCURRENCY", 5)
	v.SetDefault("RATING_RETRY_ATTEMPTS", 5)
	v.SetDefault("RATING_RETRY_BACKOFF", "1s")
	v.SetDefault("NEARBY_DEFAULT_RADIUS_KM", 5.0)
	v.SetDefault("NEARBY_DEFAULT_LIMIT", 20)
	v.SetDefault("NEARBY_MAX_LIMIT", 100)
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.RatingLocker {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported RATING_LOCKER %q", c.RatingLocker)
	}
	switch c.RatingQueue {
	case "inprocess", "redis":
	default:
		return fmt.Errorf("unsupported RATING_QUEUE %q", c.RatingQueue)
	}
	if c.RatingMaxAttempts < 1 {
		return fmt.Errorf("RATING_MAX_ATTEMPTS must be at least 1")
	}
	if c.RatingRetryAttempts < 1 {
		return fmt.Errorf("RATING_RETRY_ATTEMPTS must be at least 1")
	}
	if c.NearbyDefaultRadiusKm <= 0 {
		return fmt.Errorf("NEARBY_DEFAULT_RADIUS_KM must be positive")
	}
	if c.NearbyDefaultLimit < 1 || c.NearbyMaxLimit < c.NearbyDefaultLimit {
		return fmt.Errorf("nearby limits are inconsistent: default %d, max %d", c.NearbyDefaultLimit, c.NearbyMaxLimit)
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.RatingLocker == "redis" || c.RatingQueue == "redis"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
