package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration unless --config
// overrides it.
const DefaultPath = "config/config.yaml"

// Defaults for a fresh configuration.
const (
	DefaultOutputDir      = "rounds"
	DefaultParallelism    = 3
	DefaultTimeoutMinutes = 10
	DefaultTracksFile     = "config/tracks.yaml"
)

// Config represents the complete application configuration
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Processing ProcessingConfig `yaml:"processing"`
	Drive      DriveConfig      `yaml:"drive"`
}

// PathsConfig contains directory and file locations
type PathsConfig struct {
	OutputDirectory string `yaml:"output_directory"`
	WorkDirectory   string `yaml:"work_directory"`
	TracksFile      string `yaml:"tracks_file"`
	FFmpegPath      string `yaml:"ffmpeg_path"`
}

// ProcessingConfig contains batch run settings
type ProcessingConfig struct {
	Parallelism    int `yaml:"parallelism"`
	TimeoutMinutes int `yaml:"timeout_minutes"`
}

// DriveConfig contains Google Drive upload settings
type DriveConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"`
}

// Load reads and parses the configuration from the specified YAML file,
// filling in defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns a default configuration when
// the file does not exist yet.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Paths.OutputDirectory == "" {
		c.Paths.OutputDirectory = DefaultOutputDir
	}
	if c.Paths.TracksFile == "" {
		c.Paths.TracksFile = DefaultTracksFile
	}
	if c.Processing.Parallelism <= 0 {
		c.Processing.Parallelism = DefaultParallelism
	}
	if c.Processing.TimeoutMinutes <= 0 {
		c.Processing.TimeoutMinutes = DefaultTimeoutMinutes
	}
}

// Save writes the configuration to the specified YAML file, creating the
// parent directory if needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
