package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devSecret signs sessions outside production when SECRET_KEY is unset.
const devSecret = "dev-secret-change-me"

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	SecretKey string `env:"SECRET_KEY"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Audit   AuditConfig
}

type SessionConfig struct {
	Lifetime time.Duration `env:"SESSION_LIFETIME, default=5m"`
}

type HTTPConfig struct {
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=secureapp"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUTH_EVENT_WORKERS, default=4"`
}

// IsProduction reports whether ENV names the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and applies the defaults that
// depend on other settings.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("SECRET_KEY is required in production")
		}
		cfg.SecretKey = devSecret
	}
	if cfg.Session.Lifetime <= 0 {
		return nil, fmt.Errorf("SESSION_LIFETIME must be positive, got %s", cfg.Session.Lifetime)
	}
	return &cfg, nil
}
