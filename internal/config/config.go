package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Publish PublishConfig `yaml:"publish"`
	HTTP    HTTPConfig    `yaml:"http"`
	Library LibraryConfig `yaml:"library"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

// PublishConfig contains the UDP publish transport endpoint
type PublishConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// HTTPConfig contains HTTP control API server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
}

// LibraryConfig contains the sample library location
type LibraryConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// AudioConfig contains playback streaming parameters
type AudioConfig struct {
	SampleRate      int `yaml:"sample_rate"`
	ChunkSize       int `yaml:"chunk_size"`        // samples per frame
	FrameIntervalMS int `yaml:"frame_interval_ms"` // emission cadence
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the documented default configuration
func Default() *Config {
	return &Config{
		Publish: PublishConfig{
			Host: "127.0.0.1",
			Port: 4444,
		},
		HTTP: HTTPConfig{
			Port:    8080,
			Address: "0.0.0.0",
		},
		Library: LibraryConfig{
			Path:  "./samples",
			Watch: true,
		},
		Audio: AudioConfig{
			SampleRate:      44100,
			ChunkSize:       1024,
			FrameIntervalMS: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load reads and parses the configuration file, applying defaults for
// any field the file omits
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Publish.Validate(); err != nil {
		return fmt.Errorf("publish config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Library.Validate(); err != nil {
		return fmt.Errorf("library config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates publish transport configuration
func (p *PublishConfig) Validate() error {
	if p.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", p.Port)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
	}

	if h.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	return nil
}

// Validate validates library configuration
func (l *LibraryConfig) Validate() error {
	if l.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", a.SampleRate)
	}

	// 1024 samples is the wire-format ceiling for a single frame
	if a.ChunkSize < 1 || a.ChunkSize > 1024 {
		return fmt.Errorf("chunk_size must be between 1 and 1024 samples, got %d", a.ChunkSize)
	}

	if a.FrameIntervalMS < 1 {
		return fmt.Errorf("frame_interval_ms must be at least 1, got %d", a.FrameIntervalMS)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetFrameInterval returns the emission cadence as a time.Duration
func (a *AudioConfig) GetFrameInterval() time.Duration {
	return time.Duration(a.FrameIntervalMS) * time.Millisecond
}
