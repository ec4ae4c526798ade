// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token         string `yaml:"token"`
	Mode          string `yaml:"mode"`    // polling (webhook future)
	Workers       int    `yaml:"workers"` // task pool size
	QueueCapacity int    `yaml:"queue_capacity"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // file | postgres
	Dir    string `yaml:"dir"`    // file driver: ledger directory
	URL    string `yaml:"url"`    // postgres driver: connection string
}

type RegistryConfig struct {
	Driver string `yaml:"driver"` // memory | redis
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type OpsConfig struct {
	Port int `yaml:"port"` // /healthz and /metrics
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Registry RegistryConfig `yaml:"registry"`
	Redis    RedisConfig    `yaml:"redis"`
	Ops      OpsConfig      `yaml:"ops"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies .env/environment overrides for
// secrets and fills defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// environment overrides
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	// defaults
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Bot.QueueCapacity <= 0 {
		cfg.Bot.QueueCapacity = 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "users"
	}
	if cfg.Registry.Driver == "" {
		cfg.Registry.Driver = "memory"
	}
	if cfg.Ops.Port == 0 {
		cfg.Ops.Port = 8080
	}

	// Minimal validation
	if cfg.Bot.Token == "" && !dev {
		return nil, errors.New("bot.token is required (or set BOT_TOKEN)")
	}
	switch cfg.Storage.Driver {
	case "file":
	case "postgres":
		if cfg.Storage.URL == "" {
			return nil, errors.New("storage.url is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown storage.driver %q", cfg.Storage.Driver)
	}
	switch cfg.Registry.Driver {
	case "memory":
	case "redis":
		if cfg.Redis.URL == "" {
			return nil, errors.New("redis.url is required for the redis registry")
		}
	default:
		return nil, fmt.Errorf("unknown registry.driver %q", cfg.Registry.Driver)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
