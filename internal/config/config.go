// Package config manages application configuration.
//
// It reads settings from environment variables (optionally via a
// `.env` file), maps them into structured Go types, and validates
// that required values are present so the pipeline fails fast on
// bad or missing config. Database credentials live in a separate
// YAML file (see creds.go) keyed by source/target.
//
// Env vars use the RETAILETL_ prefix and double underscores for
// nesting, e.g. RETAILETL_DATABASE__CREDS_FILE -> database.creds_file
// -> Config.Database.CredsFile.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env
	// before anything reads env vars.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration object for the pipeline.
//
// The koanf tags specify where values are mapped from; the validate
// tags are enforced by go-playground/validator after loading.
// Redis is a pointer because the extraction cache is optional.
type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Logging  LoggingConfig  `koanf:"logging"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	API      APIConfig      `koanf:"api" validate:"required"`
	S3       S3Config       `koanf:"s3" validate:"required"`
	PDF      PDFConfig      `koanf:"pdf" validate:"required"`
	Redis    *RedisConfig   `koanf:"redis"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs and switch behavior (SQL statement logging is
// only enabled when Env is "local").
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// LoggingConfig controls the log level ("trace".."error").
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// DatabaseConfig locates the credentials file and tunes the target
// connection pool. Connection details themselves (host, user, ...)
// come from the credentials file, one block per key.
type DatabaseConfig struct {
	CredsFile       string `koanf:"creds_file" validate:"required"`
	SourceKey       string `koanf:"source_key" validate:"required"`
	TargetKey       string `koanf:"target_key" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MinIdleConns    int    `koanf:"min_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// APIConfig configures the stores REST API client.
//
// StoreDetailsEndpoint contains a {store_number} placeholder that is
// substituted per request.
type APIConfig struct {
	Key                  string `koanf:"key" validate:"required"`
	NumberStoresEndpoint string `koanf:"number_stores_endpoint" validate:"required,url"`
	StoreDetailsEndpoint string `koanf:"store_details_endpoint" validate:"required"`
	RetryCount           int    `koanf:"retry_count"`
	TimeoutSeconds       int    `koanf:"timeout_seconds"`
}

// S3Config holds the object-storage addresses of the product and
// date-event extracts, in s3://bucket/key form.
type S3Config struct {
	Region            string `koanf:"region" validate:"required"`
	ProductsAddress   string `koanf:"products_address" validate:"required"`
	DateEventsAddress string `koanf:"date_events_address" validate:"required"`
}

// PDFConfig locates the card-details PDF (URL or local path).
type PDFConfig struct {
	CardDetailsURL string `koanf:"card_details_url" validate:"required"`
}

// RedisConfig configures the optional store-extraction cache.
// Address is "host:port"; TTLHours bounds how long cached store
// records survive between runs.
type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	TTLHours int    `koanf:"ttl_hours"`
}

// envPrefix is stripped from env var names before mapping.
const envPrefix = "RETAILETL_"

// Load reads configuration from environment variables, unmarshals it
// into Config, applies defaults and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Env vars with the prefix become koanf keys: prefix stripped,
	// lowercased, "__" turned into the "." nesting delimiter.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills optional blocks so only deployment-specific
// values need to be present in the environment.
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Database.CredsFile == "" {
		c.Database.CredsFile = "db_creds.yaml"
	}
	if c.Database.SourceKey == "" {
		c.Database.SourceKey = "source_db"
	}
	if c.Database.TargetKey == "" {
		c.Database.TargetKey = "target_db"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "require"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 1800
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 300
	}
	if c.API.RetryCount == 0 {
		c.API.RetryCount = 3
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.S3.Region == "" {
		c.S3.Region = "eu-west-1"
	}
	if c.Redis != nil && c.Redis.TTLHours == 0 {
		c.Redis.TTLHours = 24
	}
}
