package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the analyzer pipeline.
type Config struct {
	// Profile source settings
	Source SourceConfig `yaml:"source" json:"source"`

	// Image fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SourceConfig holds settings for the live profile source.
type SourceConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	PageSize  int           `yaml:"page_size" json:"page_size"`
}

// FetchConfig holds settings for image downloads.
type FetchConfig struct {
	// Delay is the fixed pause between successive image fetches. This is a
	// politeness contract towards the source, not a throughput knob.
	Delay      time.Duration `yaml:"delay" json:"delay"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
}

// OutputConfig holds output directory configuration.
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	CreateUserFolders bool   `yaml:"create_user_folders" json:"create_user_folders"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:   "https://www.instagram.com",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			Timeout:   30 * time.Second,
			PageSize:  50,
		},
		Fetch: FetchConfig{
			Delay:      1500 * time.Millisecond,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Output: OutputConfig{
			BaseDirectory:     "./downloads",
			CreateUserFolders: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if userAgent := os.Getenv("IGANALYZER_USER_AGENT"); userAgent != "" {
		c.Source.UserAgent = userAgent
	}
	if baseURL := os.Getenv("IGANALYZER_BASE_URL"); baseURL != "" {
		c.Source.BaseURL = baseURL
	}
	if outputDir := os.Getenv("IGANALYZER_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if delay := os.Getenv("IGANALYZER_FETCH_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid IGANALYZER_FETCH_DELAY: %w", err)
		}
		c.Fetch.Delay = d
	}
	if logLevel := os.Getenv("IGANALYZER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".iganalyzer.yaml",
		".iganalyzer.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "iganalyzer", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".iganalyzer.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Source.BaseURL == "" {
		errs = append(errs, errors.New("source base URL is required"))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, errors.New("source timeout must be positive"))
	}
	if c.Source.PageSize <= 0 {
		errs = append(errs, errors.New("source page size must be positive"))
	}

	if c.Fetch.Delay < 0 {
		errs = append(errs, errors.New("fetch delay cannot be negative"))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.Fetch.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if delay, ok := flags["fetch-delay"].(time.Duration); ok && delay > 0 {
		c.Fetch.Delay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".iganalyzer.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
