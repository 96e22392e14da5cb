package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config file is given explicitly and it exists.
const DefaultFile = "pixelwall.yaml"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PIXELWALL_"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Locking modes for the update path.
const (
	LockNone  = "none"
	LockLocal = "local"
	LockRedis = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	Size         int    `yaml:"size" env:"SIZE"`
	DefaultColor string `yaml:"default_color" env:"DEFAULT_COLOR"`
	Addr         string `yaml:"addr" env:"ADDR"`
	Locking      string `yaml:"locking" env:"LOCKING"`

	Log   LogConfig   `yaml:"log" envPrefix:"LOG_"`
	Store StoreConfig `yaml:"store" envPrefix:"STORE_"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// StoreConfig selects and configures the durable store.
type StoreConfig struct {
	Backend      string `yaml:"backend" env:"BACKEND"`
	Path         string `yaml:"path" env:"PATH"`
	AtomicWrites bool   `yaml:"atomic_writes" env:"ATOMIC_WRITES"`
	Name         string `yaml:"name" env:"NAME"`
	ReadOnly     bool   `yaml:"read_only" env:"READ_ONLY"`

	// Timeout bounds each store call. Zero means no bound.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	Redis RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
}

// RedisConfig holds connection settings for the redis backend and locker.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Key      string `yaml:"key" env:"KEY"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		Size:         domain.DefaultSize,
		DefaultColor: domain.DefaultColor,
		Addr:         ":5000",
		Locking:      LockNone,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Name:    "default",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "pixelwall:grid",
			},
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path, then
// PIXELWALL_* environment variables. An empty path reads DefaultFile if present.
func Load(path string) (Config, error) {
	return LoadOver(Default(), path)
}

// LoadOver is Load starting from base instead of Default. Commands use it to set
// their own defaults while still letting the file and environment override them.
func LoadOver(base Config, path string) (Config, error) {
	cfg := base

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can be acted upon.
func (c Config) Validate() error {
	var errs []error
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %d", c.Size))
	}
	switch strings.ToLower(c.Store.Backend) {
	case BackendFile, BackendMemory, BackendRedis, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if c.Store.Timeout < 0 {
		errs = append(errs, fmt.Errorf("store timeout must not be negative, got %s", c.Store.Timeout))
	}
	switch strings.ToLower(c.Locking) {
	case LockNone, LockLocal:
	case LockRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("locking %q requires store.redis.addr", c.Locking))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown locking mode %q", c.Locking))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// StorePath returns the configured path, or the backend's default one.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if strings.EqualFold(c.Store.Backend, BackendSQLite) {
		return "pixels.db"
	}
	return "pixels.json"
}
