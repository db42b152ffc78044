package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

const (
	DraftBackendRedis  = "redis"
	DraftBackendSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv string `yaml:"app_env" env:"APP_ENV" env-default:"development"`

	DBDriver string `yaml:"db_driver" env:"DB_DRIVER" env-default:"sqlite3"`
	DBPath   string `yaml:"db_path" env:"DB_PATH" env-default:"./data/procurement.db"`

	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`

	GRPCPort              int  `yaml:"grpc_port" env:"GRPC_PORT" env-default:"50051"`
	GRPCReflectionEnabled bool `yaml:"grpc_reflection_enabled" env:"GRPC_REFLECTION_ENABLED" env-default:"false"`

	HTTPAddr           string   `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	HTTPAllowedOrigins []string `yaml:"http_allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`

	RatesURL             string        `yaml:"rates_url" env:"RATES_URL" env-default:"https://api.exchangerate-api.com/v4/latest"`
	RatesReference       string        `yaml:"rates_reference" env:"RATES_REFERENCE" env-default:"TRY"`
	RatesTimeout         time.Duration `yaml:"rates_timeout" env:"RATES_TIMEOUT" env-default:"10s"`
	RatesRefreshSchedule string        `yaml:"rates_refresh_schedule" env:"RATES_REFRESH_SCHEDULE" env-default:"@every 1h"`
	RatesPruneSchedule   string        `yaml:"rates_prune_schedule" env:"RATES_PRUNE_SCHEDULE" env-default:"@daily"`
	RatesSnapshotKeep    int           `yaml:"rates_snapshot_keep" env:"RATES_SNAPSHOT_KEEP" env-default:"48"`

	CacheTTL time.Duration `yaml:"cache_ttl" env:"CACHE_TTL" env-default:"10m"`

	DraftBackend       string        `yaml:"draft_backend" env:"DRAFT_BACKEND" env-default:"sqlite"`
	DraftTTL           time.Duration `yaml:"draft_ttl" env:"DRAFT_TTL" env-default:"168h"`
	DraftPurgeSchedule string        `yaml:"draft_purge_schedule" env:"DRAFT_PURGE_SCHEDULE" env-default:"@every 30m"`

	ApplySectionWeights bool `yaml:"apply_section_weights" env:"APPLY_SECTION_WEIGHTS" env-default:"false"`
	SeedQuestionBanks   bool `yaml:"seed_question_banks" env:"SEED_QUESTION_BANKS" env-default:"false"`
}

// Load reads the YAML file at CONFIG_PATH when set, otherwise the environment
// alone. Environment variables win over the file.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DraftBackend = strings.ToLower(strings.TrimSpace(c.DraftBackend))
	switch c.DraftBackend {
	case DraftBackendRedis, DraftBackendSQLite:
	default:
		return fmt.Errorf("invalid DRAFT_BACKEND %q: must be %s or %s", c.DraftBackend, DraftBackendRedis, DraftBackendSQLite)
	}

	c.RatesReference = strings.ToUpper(strings.TrimSpace(c.RatesReference))
	if c.RatesReference == "" {
		return fmt.Errorf("RATES_REFERENCE must not be empty")
	}
	if c.RatesSnapshotKeep < 1 {
		return fmt.Errorf("RATES_SNAPSHOT_KEEP must be at least 1, got %d", c.RatesSnapshotKeep)
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid GRPC_PORT %d", c.GRPCPort)
	}

	origins := c.HTTPAllowedOrigins[:0]
	for _, o := range c.HTTPAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.HTTPAllowedOrigins = origins
	return nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
