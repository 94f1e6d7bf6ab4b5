package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "stmtbooks.yaml"

// Config represents the top-level stmtbooks.yaml configuration.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Scan   ScanConfig   `yaml:"scan"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig selects which documents are processed.
type InputConfig struct {
	Extensions []string `yaml:"extensions"` // without the dot, e.g. "pdf"
}

// ScanConfig controls page scanning.
type ScanConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig selects which artifacts are written to the output directory.
type OutputConfig struct {
	JSON          bool `yaml:"json"`
	CSV           bool `yaml:"csv"`
	ExtractedText bool `yaml:"extracted_text"`
	RunLog        bool `yaml:"run_log"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a stmtbooks.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and returns defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if len(c.Input.Extensions) == 0 {
		return fmt.Errorf("config: input.extensions is empty")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("config: scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Extensions: []string{"pdf"},
		},
		Scan: ScanConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			JSON:          true,
			CSV:           true,
			ExtractedText: true,
			RunLog:        true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
