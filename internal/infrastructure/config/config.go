package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend   BackendConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Workspace WorkspaceConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:3000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
	RPS     float64       `env:"BACKEND_RPS,     default=0"`
}

type StorageConfig struct {
	Driver string        `env:"STORAGE_DRIVER, default=redis"`
	TTL    time.Duration `env:"STORAGE_TTL,    default=720h"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=ukm_portal"`
	AppName     string        `env:"MONGO_APP_NAME,      default=ukm-portal"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
}

type WorkspaceConfig struct {
	NotificationDuration time.Duration `env:"NOTIFICATION_DURATION, default=3s"`
	IdleTTL              time.Duration `env:"WORKSPACE_IDLE_TTL,    default=30m"`
	CookieName           string        `env:"COOKIE_NAME,           default=ukm_client"`
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverRedis, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Backend.URL) == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.Redis.Timeout <= 0 || c.Mongo.Timeout <= 0 {
		return errors.New("REDIS_TIMEOUT and MONGO_TIMEOUT must be positive")
	}
	if c.Redis.PoolSize <= 0 {
		return errors.New("REDIS_POOL_SIZE must be positive")
	}
	if c.Backend.RPS < 0 {
		return errors.New("BACKEND_RPS must not be negative")
	}
	if c.Workspace.NotificationDuration <= 0 {
		return errors.New("NOTIFICATION_DURATION must be positive")
	}
	if c.Workspace.IdleTTL <= 0 {
		return errors.New("WORKSPACE_IDLE_TTL must be positive")
	}
	if strings.TrimSpace(c.Workspace.CookieName) == "" {
		return errors.New("COOKIE_NAME is required")
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context, files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
