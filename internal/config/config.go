// Package config provides configuration management for the sales cleaner.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"salesclean/internal/normalizer"
)

// Default paths of the raw source and the cleaned output.
const (
	DefaultInputPath  = "data/raw/sales_data_raw.csv"
	DefaultOutputPath = "data/processed/sales_data_clean.csv"
	DefaultConfigPath = "configs/cleaner.yaml"
)

// Configuration validation errors.
var (
	ErrMissingInputPath       = errors.New("input.path is required")
	ErrMissingOutputPath      = errors.New("output.path is required")
	ErrSameInputOutput        = errors.New("output.path must differ from input.path")
	ErrInvalidDelimiter       = errors.New("delimiter must be a single character other than a quote or newline")
	ErrNoRequiredColumns      = errors.New("validation.required_columns must name at least one column")
	ErrInvalidPreviewRows     = errors.New("preview.rows must be non-negative")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidCollisionPolicy = errors.New("validation.collision_policy must be one of: fail, last_wins")
)

// Config represents the complete cleaner configuration.
type Config struct {
	Cleaner CleanerConfig `yaml:"cleaner"`
}

// CleanerConfig contains cleaner-specific settings.
type CleanerConfig struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// InputConfig describes the raw source.
type InputConfig struct {
	Path      string   `yaml:"path"`
	Delimiter string   `yaml:"delimiter"`
	NAValues  []string `yaml:"na_values,omitempty"`
}

// OutputConfig describes the cleaned sink.
type OutputConfig struct {
	Path       string `yaml:"path"`
	Delimiter  string `yaml:"delimiter"`
	CreateDirs bool   `yaml:"create_dirs"`
	Manifest   bool   `yaml:"manifest"`
}

// ValidationConfig defines the required numeric columns and the naming collision policy.
type ValidationConfig struct {
	RequiredColumns []string `yaml:"required_columns"`
	CollisionPolicy string   `yaml:"collision_policy"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url,omitempty"`
}

// PreviewConfig controls console output after a run.
type PreviewConfig struct {
	Rows     int  `yaml:"rows"`
	Describe bool `yaml:"describe"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Cleaner: CleanerConfig{
			Input: InputConfig{
				Path:      DefaultInputPath,
				Delimiter: ",",
			},
			Output: OutputConfig{
				Path:       DefaultOutputPath,
				Delimiter:  ",",
				CreateDirs: true,
				Manifest:   true,
			},
			Validation: ValidationConfig{
				RequiredColumns: append([]string(nil), normalizer.DefaultRequiredColumns...),
				CollisionPolicy: string(normalizer.CollisionFail),
			},
			Logging: LoggingConfig{Level: "info"},
			Preview: PreviewConfig{Rows: 5},
		},
	}
}

// LoadConfig loads configuration from YAML file. Keys absent from the file keep
// their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	in := c.Cleaner.Input
	out := c.Cleaner.Output

	if in.Path == "" {
		return ErrMissingInputPath
	}

	if out.Path == "" {
		return ErrMissingOutputPath
	}

	if in.Path == out.Path {
		return ErrSameInputOutput
	}

	if _, err := ParseDelimiter(in.Delimiter); err != nil {
		return fmt.Errorf("input.%w", err)
	}

	if _, err := ParseDelimiter(out.Delimiter); err != nil {
		return fmt.Errorf("output.%w", err)
	}

	if len(normalizer.NewValidator(c.Cleaner.Validation.RequiredColumns).Required()) == 0 {
		return ErrNoRequiredColumns
	}

	if _, err := normalizer.ParseCollisionPolicy(c.Cleaner.Validation.CollisionPolicy); err != nil {
		return ErrInvalidCollisionPolicy
	}

	if c.Cleaner.Preview.Rows < 0 {
		return ErrInvalidPreviewRows
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Cleaner.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// ParseDelimiter converts a config delimiter string to a rune. Empty means ','.
// The literal "\t" is accepted for tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`:
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, ErrInvalidDelimiter
	}

	return r, nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Output: %s, Required: %v}",
		c.Cleaner.Input.Path,
		c.Cleaner.Output.Path,
		c.Cleaner.Validation.RequiredColumns,
	)
}
