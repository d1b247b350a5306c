// Package config loads the immutable startup settings from a YAML
// file. Settings are read once at process start and never change for
// the lifetime of a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Models the recognizer accepts.
var Models = []string{"tiny", "base", "small", "medium", "large-v3"}

// Config holds all application configuration.
type Config struct {
	Model           string  `yaml:"model"`
	Language        string  `yaml:"language"`
	SilenceDuration float64 `yaml:"silence_duration"` // seconds of silence that end an utterance
	Debug           bool    `yaml:"debug"`

	Recognizer RecognizerConfig `yaml:"recognizer"`
	GPU        GPUConfig        `yaml:"gpu"`
}

// RecognizerConfig holds the streaming connection settings.
type RecognizerConfig struct {
	Endpoint      string   `yaml:"endpoint"`
	SampleRate    int      `yaml:"sample_rate"`
	Channels      int      `yaml:"channels"`
	SourceCommand []string `yaml:"source_command"`
}

// GPUConfig holds VRAM sampling settings.
type GPUConfig struct {
	SampleIntervalMS int `yaml:"sample_interval_ms"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "murmur", "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model:           "base",
		Language:        "en",
		SilenceDuration: 0.7,
		Recognizer: RecognizerConfig{
			SampleRate:    16000,
			Channels:      1,
			SourceCommand: []string{"parec", "--format=s16le", "--rate=16000", "--channels=1"},
		},
		GPU: GPUConfig{
			SampleIntervalMS: 500,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A missing file is not an error: defaults are returned
// so the utility runs without any setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// APIKey returns the streaming service credential from the
// environment. Credentials never live in the config file.
func APIKey() string {
	return os.Getenv("MURMUR_API_KEY")
}

// SilenceThreshold returns the silence duration as a time.Duration.
func (c *Config) SilenceThreshold() time.Duration {
	return time.Duration(c.SilenceDuration * float64(time.Second))
}

// SampleInterval returns the VRAM polling period.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.GPU.SampleIntervalMS) * time.Millisecond
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	valid := false
	for _, m := range Models {
		if c.Model == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("model must be one of %v, got %q", Models, c.Model)
	}

	if c.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	if c.SilenceDuration <= 0 {
		return fmt.Errorf("silence_duration must be > 0, got %g", c.SilenceDuration)
	}
	if c.Recognizer.SampleRate <= 0 {
		return fmt.Errorf("recognizer.sample_rate must be > 0")
	}
	if c.Recognizer.Channels <= 0 {
		return fmt.Errorf("recognizer.channels must be > 0")
	}
	if len(c.Recognizer.SourceCommand) == 0 {
		return fmt.Errorf("recognizer.source_command must not be empty")
	}
	if c.GPU.SampleIntervalMS <= 0 {
		return fmt.Errorf("gpu.sample_interval_ms must be > 0")
	}
	return nil
}
