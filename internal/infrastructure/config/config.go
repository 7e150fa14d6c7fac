package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT       JWTConfig
	Cookie    CookieConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	RateLimit RateLimitConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type JWTConfig struct {
	Secret             string        `env:"JWT_SECRET"`
	Issuer             string        `env:"JWT_ISSUER,               default=admin-system"`
	AccessTTL          time.Duration `env:"JWT_ACCESS_TTL,           default=50m"`
	RefreshTTL         time.Duration `env:"JWT_REFRESH_TTL,          default=24h"`
	RememberAccessTTL  time.Duration `env:"JWT_REMEMBER_ACCESS_TTL,  default=12h"`
	RememberRefreshTTL time.Duration `env:"JWT_REMEMBER_REFRESH_TTL, default=168h"`
	RotateRefresh      bool          `env:"JWT_ROTATE_REFRESH,       default=true"`
}

type CookieConfig struct {
	Path   string `env:"COOKIE_PATH, default=/"`
	Domain string `env:"COOKIE_DOMAIN"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/admin_system.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_system"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED, default=true"`
	Limit   int64         `env:"RATE_LIMIT_LIMIT,   default=10"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW,  default=1m"`
}

// IsDevelopment reports whether the process runs in development mode; auth
// cookies drop the Secure flag only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
