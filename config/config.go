package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ExtractionConfig holds settings for the vision-model extraction call.
type ExtractionConfig struct {
	// APIKey is the OpenAI-compatible API key. The OPENAI_API_KEY
	// environment variable overrides this value.
	APIKey string `yaml:"api_key"`

	// Model is the vision-capable model name.
	Model string `yaml:"model"`

	// BaseURL allows pointing at an OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// StorageDir is where the persisted event list lives.
	StorageDir string `yaml:"storage_dir"`

	// LogFile, if set, enables rotated file logging alongside stderr.
	LogFile string `yaml:"log_file"`

	// AllowedOrigins are extra CORS origins trusted on top of the
	// built-in localhost/LAN rules.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// EventDurationHours is the length of generated event blocks.
	// Historically 2; current default is 3.
	EventDurationHours int `yaml:"event_duration_hours"`

	Extraction ExtractionConfig `yaml:"extraction"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             "127.0.0.1:8080",
		StorageDir:         "data",
		EventDurationHours: 3,
		Extraction: ExtractionConfig{
			Model: "gpt-4o",
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.StorageDir == "" {
		c.StorageDir = "data"
	}
	if c.EventDurationHours <= 0 {
		c.EventDurationHours = 3
	}
	if c.Extraction.Model == "" {
		c.Extraction.Model = "gpt-4o"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Extraction.APIKey = key
	}
}

// Load loads configuration from the given YAML path. A missing file is not
// an error: defaults are returned so the server can start on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		cfg.Normalize()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}
