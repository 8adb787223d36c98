// Package config loads process configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session store backends.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Config is the gateway configuration.
type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	ServiceName string `env:"SERVICE_NAME, default=vertex-gateway"`

	Backend   BackendConfig
	Cache     CacheConfig
	Session   SessionConfig
	Strategy  StrategyConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Telemetry TelemetryConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8001"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

type CacheConfig struct {
	PortfolioTTL    time.Duration `env:"PORTFOLIO_CACHE_TTL,    default=30m"`
	TestimonialsTTL time.Duration `env:"TESTIMONIALS_CACHE_TTL, default=30m"`
}

type SessionConfig struct {
	Store        string        `env:"SESSION_STORE,         default=redis"`
	Cookie       string        `env:"SESSION_COOKIE,        default=vt_session"`
	TTL          time.Duration `env:"SESSION_TTL,           default=168h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

type StrategyConfig struct {
	DemoEmail    string        `env:"STRATEGY_DEMO_EMAIL"`
	DemoPassword string        `env:"STRATEGY_DEMO_PASSWORD"`
	TokenTTL     time.Duration `env:"STRATEGY_TOKEN_TTL, default=23h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// MongoConfig enables the audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=vertex_target"`
}

type TelemetryConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE, default=false"`
}

// IsDevelopment reports whether pretty logging and relaxed defaults apply.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// AuditEnabled reports whether a Mongo URI was configured.
func (c *Config) AuditEnabled() bool { return c.Mongo.URI != "" }

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreRedis, SessionStoreMemory, c.Session.Store)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.Cache.PortfolioTTL <= 0 || c.Cache.TestimonialsTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// DevBackendConfig configures the in-memory development backend.
type DevBackendConfig struct {
	Port              string        `env:"DEVBACKEND_PORT,     default=8001"`
	LogLevel          string        `env:"LOG_LEVEL,           default=info"`
	JWTSecret         string        `env:"JWT_SECRET,          default=dev-secret-change-me"`
	JWTTTL            time.Duration `env:"JWT_TTL,             default=24h"`
	SeedAdminEmail    string        `env:"SEED_ADMIN_EMAIL,    default=admin@vertextarget.com"`
	SeedAdminPassword string        `env:"SEED_ADMIN_PASSWORD, default=admin123456"`
	StrategyCacheTTL  time.Duration `env:"STRATEGY_CACHE_TTL,  default=24h"`
}

// Load reads the gateway configuration and panics when it is invalid.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads the gateway configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDevBackend reads the development backend configuration.
func LoadDevBackend() *DevBackendConfig {
	var cfg DevBackendConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load dev backend configuration: %v", err))
	}
	return &cfg
}
