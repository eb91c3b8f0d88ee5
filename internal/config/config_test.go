package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:        "valid default configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "invalid publish port",
			mutate:      func(c *Config) { c.Publish.Port = 0 },
			expectError: true,
		},
		{
			name:        "empty publish host",
			mutate:      func(c *Config) { c.Publish.Host = "" },
			expectError: true,
		},
		{
			name:        "invalid http port",
			mutate:      func(c *Config) { c.HTTP.Port = 70000 },
			expectError: true,
		},
		{
			name:        "empty library path",
			mutate:      func(c *Config) { c.Library.Path = "" },
			expectError: true,
		},
		{
			name:        "sample rate too low",
			mutate:      func(c *Config) { c.Audio.SampleRate = 4000 },
			expectError: true,
		},
		{
			name:        "chunk size above wire limit",
			mutate:      func(c *Config) { c.Audio.ChunkSize = 2048 },
			expectError: true,
		},
		{
			name:        "zero chunk size",
			mutate:      func(c *Config) { c.Audio.ChunkSize = 0 },
			expectError: true,
		},
		{
			name:        "zero frame interval",
			mutate:      func(c *Config) { c.Audio.FrameIntervalMS = 0 },
			expectError: true,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no validation error, got: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
publish:
  host: "239.0.0.1"
  port: 5555
audio:
  sample_rate: 48000
  chunk_size: 512
  frame_interval_ms: 20
logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Publish.Host != "239.0.0.1" {
		t.Errorf("Expected publish host 239.0.0.1, got %s", cfg.Publish.Host)
	}
	if cfg.Publish.Port != 5555 {
		t.Errorf("Expected publish port 5555, got %d", cfg.Publish.Port)
	}
	if cfg.Audio.ChunkSize != 512 {
		t.Errorf("Expected chunk size 512, got %d", cfg.Audio.ChunkSize)
	}
	if cfg.Audio.GetFrameInterval() != 20*time.Millisecond {
		t.Errorf("Expected frame interval 20ms, got %v", cfg.Audio.GetFrameInterval())
	}

	// Omitted sections keep their defaults
	if cfg.HTTP.Port != 8080 {
		t.Errorf("Expected default http port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Library.Path != "./samples" {
		t.Errorf("Expected default library path ./samples, got %s", cfg.Library.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("publish: [not a mapping"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default configuration should validate, got: %v", err)
	}
}
