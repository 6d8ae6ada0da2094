// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Result storage configuration
	Store StoreConfig `yaml:"store"`

	// Bus configuration
	Bus BusConfig `yaml:"bus"`

	// Evaluation configuration
	Eval EvalConfig `yaml:"eval"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// StoreConfig holds result storage settings.
type StoreConfig struct {
	Type     string `envconfig:"RANKEVAL_STORE_TYPE" yaml:"type"`
	Path     string `envconfig:"RANKEVAL_STORE_PATH" yaml:"path"`
	RedisURL string `envconfig:"RANKEVAL_REDIS_URL" yaml:"redis_url"`
	Prefix   string `envconfig:"RANKEVAL_STORE_PREFIX" yaml:"prefix"`
	TTL      int    `envconfig:"RANKEVAL_STORE_TTL" yaml:"ttl"` // seconds, 0 = no expiry
}

// TTLDuration returns TTL as a duration.
func (s StoreConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

// BusConfig holds message bus settings.
type BusConfig struct {
	Type         string `envconfig:"RANKEVAL_BUS_TYPE" yaml:"type"`
	KafkaBrokers string `envconfig:"RANKEVAL_KAFKA_BROKERS" yaml:"kafka_brokers"`
	KafkaGroup   string `envconfig:"RANKEVAL_KAFKA_GROUP" yaml:"kafka_group"`
	KafkaVersion string `envconfig:"RANKEVAL_KAFKA_VERSION" yaml:"kafka_version"`
	Topic        string `envconfig:"RANKEVAL_BUS_TOPIC" yaml:"topic"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	Metric            string `envconfig:"RANKEVAL_METRIC" yaml:"metric"`
	RelevantThreshold int    `envconfig:"RANKEVAL_RELEVANT_THRESHOLD" yaml:"relevant_threshold"`
	IgnoreUnlabeled   bool   `envconfig:"RANKEVAL_IGNORE_UNLABELED" yaml:"ignore_unlabeled"`
	Concurrency       int    `envconfig:"RANKEVAL_CONCURRENCY" yaml:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"RANKEVAL_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"RANKEVAL_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Store = StoreConfig{
		Type:     "memory",
		Path:     "./data/results",
		RedisURL: "redis://localhost:6379",
		Prefix:   "rankeval:result:",
		TTL:      0,
	}

	cfg.Bus = BusConfig{
		Type:  "memory",
		Topic: "rankeval.results",
	}

	cfg.Eval = EvalConfig{
		Metric:            "precision",
		RelevantThreshold: 1,
		IgnoreUnlabeled:   false,
		Concurrency:       4,
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	// Store validation
	validStoreTypes := map[string]bool{"memory": true, "file": true, "redis": true}
	if !validStoreTypes[c.Store.Type] {
		errs = append(errs, fmt.Sprintf("invalid store type: %s (must be memory, file, or redis)", c.Store.Type))
	}
	if c.Store.Type == "file" && c.Store.Path == "" {
		errs = append(errs, "store path is required for file store")
	}
	if c.Store.Type == "redis" && c.Store.RedisURL == "" {
		errs = append(errs, "redis_url is required for redis store")
	}
	if c.Store.TTL < 0 {
		errs = append(errs, "store ttl cannot be negative")
	}

	// Bus validation
	validBusTypes := map[string]bool{"memory": true, "kafka": true}
	if !validBusTypes[c.Bus.Type] {
		errs = append(errs, fmt.Sprintf("invalid bus type: %s (must be memory or kafka)", c.Bus.Type))
	}
	if c.Bus.Type == "kafka" && c.Bus.KafkaBrokers == "" {
		errs = append(errs, "kafka_brokers is required for kafka bus")
	}
	if c.Bus.Topic == "" {
		errs = append(errs, "bus topic cannot be empty")
	}

	// Eval validation
	validMetrics := map[string]bool{"precision": true, "recall": true, "reciprocal_rank": true}
	if !validMetrics[c.Eval.Metric] {
		errs = append(errs, fmt.Sprintf("invalid metric: %s (must be precision, recall, or reciprocal_rank)", c.Eval.Metric))
	}
	if c.Eval.RelevantThreshold < 0 {
		errs = append(errs, "relevant_threshold cannot be negative")
	}
	if c.Eval.Concurrency < 1 {
		errs = append(errs, "concurrency must be positive")
	}

	// Log validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Log.Level == "debug"
}
