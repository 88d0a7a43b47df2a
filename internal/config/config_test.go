package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "castles.db", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 20, cfg.RateLimit.Capacity)
	assert.Equal(t, 3*time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, "castle.bookings", cfg.AMQPExchange)
	assert.True(t, cfg.RecheckOverlapOnUpdate)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BOOKING_RECHECK_OVERLAP_ON_UPDATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RecheckOverlapOnUpdate)
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	base := func() Config {
		return Config{
			Port:         "8080",
			DatabaseURL:  "castles.db",
			DBLogLevel:   "warn",
			JWTSecret:    "s",
			JWTAccessTTL: time.Minute,
			BcryptCost:   10,
		}
	}

	cases := map[string]func(*Config){
		"JWT_ACCESS_TTL":      func(c *Config) { c.JWTAccessTTL = 0 },
		"BCRYPT_COST":         func(c *Config) { c.BcryptCost = 40 },
		"DB_LOG_LEVEL":        func(c *Config) { c.DBLogLevel = "loud" },
		"CACHE_TTL":           func(c *Config) { c.Cache = CacheConfig{Enabled: true} },
		"RATE_LIMIT_CAPACITY": func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true, RefillInterval: time.Second} },
	}
	for key, mutate := range cases {
		t.Run(key, func(t *testing.T) {
			cfg := base()
			mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), key)
		})
	}

	ok := base()
	assert.NoError(t, ok.Validate())
}

func TestNewRedisClient_Disabled(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{}))
}
