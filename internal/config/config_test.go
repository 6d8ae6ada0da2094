package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RANKEVAL_METRIC", "recall")
	t.Setenv("RANKEVAL_LOG_LEVEL", "debug")
	t.Setenv("RANKEVAL_STORE_TTL", "60")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Eval.Metric != "recall" {
		t.Errorf("Eval.Metric = %s, want recall", cfg.Eval.Metric)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}

	if cfg.Store.TTLDuration() != time.Minute {
		t.Errorf("Store.TTLDuration() = %v, want 1m", cfg.Store.TTLDuration())
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
store:
  type: file
  path: "/tmp/results"
bus:
  type: kafka
  kafka_brokers: "broker1:9092,broker2:9092"
eval:
  metric: reciprocal_rank
  relevant_threshold: 2
log:
  level: warn
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Type != "file" || cfg.Store.Path != "/tmp/results" {
		t.Errorf("Store = %+v, want file store at /tmp/results", cfg.Store)
	}

	if cfg.Bus.KafkaBrokers != "broker1:9092,broker2:9092" {
		t.Errorf("Bus.KafkaBrokers = %s", cfg.Bus.KafkaBrokers)
	}

	if cfg.Eval.Metric != "reciprocal_rank" || cfg.Eval.RelevantThreshold != 2 {
		t.Errorf("Eval = %+v, want reciprocal_rank with threshold 2", cfg.Eval)
	}

	// Defaults survive for unset keys
	if cfg.Bus.Topic != "rankeval.results" {
		t.Errorf("Bus.Topic = %s, want default", cfg.Bus.Topic)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("eval:\n  metric: recall\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RANKEVAL_METRIC", "precision")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Eval.Metric != "precision" {
		t.Errorf("Eval.Metric = %s, want precision", cfg.Eval.Metric)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with missing file should fail")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid store type",
			modify: func(c *Config) {
				c.Store.Type = "s3"
			},
			wantErr: true,
		},
		{
			name: "file store without path",
			modify: func(c *Config) {
				c.Store.Type = "file"
				c.Store.Path = ""
			},
			wantErr: true,
		},
		{
			name: "negative ttl",
			modify: func(c *Config) {
				c.Store.TTL = -1
			},
			wantErr: true,
		},
		{
			name: "invalid bus type",
			modify: func(c *Config) {
				c.Bus.Type = "nats"
			},
			wantErr: true,
		},
		{
			name: "kafka without brokers",
			modify: func(c *Config) {
				c.Bus.Type = "kafka"
			},
			wantErr: true,
		},
		{
			name: "invalid metric",
			modify: func(c *Config) {
				c.Eval.Metric = "ndcg"
			},
			wantErr: true,
		},
		{
			name: "zero concurrency",
			modify: func(c *Config) {
				c.Eval.Concurrency = 0
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "invalid"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{}

	cfg.Log.Level = "debug"
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true for debug level")
	}

	cfg.Log.Level = "info"
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false for info level")
	}
}
