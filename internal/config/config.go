package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBLogLevel  string `mapstructure:"DB_LOG_LEVEL"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTAccessTTL time.Duration `mapstructure:"JWT_ACCESS_TTL"`
	BcryptCost   int           `mapstructure:"BCRYPT_COST"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	Redis     RedisConfig     `mapstructure:",squash"`
	Cache     CacheConfig     `mapstructure:",squash"`
	RateLimit RateLimitConfig `mapstructure:",squash"`

	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`
	AMQPQueue    string `mapstructure:"AMQP_QUEUE"`

	RecheckOverlapOnUpdate bool `mapstructure:"BOOKING_RECHECK_OVERLAP_ON_UPDATE"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"CACHE_ENABLED"`
	TTL     time.Duration `mapstructure:"CACHE_TTL"`
	Prefix  string        `mapstructure:"CACHE_PREFIX"`
}

type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"RATE_LIMIT_ENABLED"`
	Capacity       int           `mapstructure:"RATE_LIMIT_CAPACITY"`
	RefillInterval time.Duration `mapstructure:"RATE_LIMIT_REFILL_INTERVAL"`
	Prefix         string        `mapstructure:"RATE_LIMIT_PREFIX"`
}

var defaults = map[string]any{
	"APP_ENV":        "dev",
	"PORT":           "8080",
	"DATABASE_URL":   "castles.db",
	"DB_LOG_LEVEL":   "warn",
	"JWT_SECRET":     defaultJWTSecret,
	"JWT_ACCESS_TTL": "30m",
	"BCRYPT_COST":    10,

	"CORS_ALLOWED_ORIGINS": []string{},

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"CACHE_ENABLED": true,
	"CACHE_TTL":     "30s",
	"CACHE_PREFIX":  "cache",

	"RATE_LIMIT_ENABLED":         true,
	"RATE_LIMIT_CAPACITY":        20,
	"RATE_LIMIT_REFILL_INTERVAL": "3s",
	"RATE_LIMIT_PREFIX":          "rl",

	"AMQP_URL":      "",
	"AMQP_EXCHANGE": "castle.bookings",
	"AMQP_QUEUE":    "castle.bookings.log",

	"BOOKING_RECHECK_OVERLAP_ON_UPDATE": true,
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CORSAllowedOrigins = splitOrigins(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	switch strings.ToLower(c.DBLogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be one of: silent, error, warn, info")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Capacity <= 0 {
			return fmt.Errorf("RATE_LIMIT_CAPACITY must be > 0")
		}
		if c.RateLimit.RefillInterval <= 0 {
			return fmt.Errorf("RATE_LIMIT_REFILL_INTERVAL must be > 0")
		}
	}

	if c.IsProdLike() && isEmptyOrDefault(c.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

// splitOrigins flattens values that arrive comma separated in a single
// element and drops blanks.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
