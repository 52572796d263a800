package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the reporter (probe side)
type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Server  ServerConfig  `yaml:"server"`
	Buffer  BufferConfig  `yaml:"buffer"`
	Logging LoggingConfig `yaml:"logging"`
}

// SensorConfig contains probe-specific settings
type SensorConfig struct {
	ID           string        `yaml:"id"`
	SourcePath   string        `yaml:"source_path"`
	ReadInterval time.Duration `yaml:"read_interval"`
}

// ServerConfig contains connection settings for the ingestion endpoint
type ServerConfig struct {
	WriteURL      string        `yaml:"write_url"`
	APIKey        string        `yaml:"api_key"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay"`
}

// BufferConfig contains settings for the unsent-reading buffer
type BufferConfig struct {
	Size int `yaml:"size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads reporter configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(yamlData, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	config.ApplyDefaults()
	config.OverrideFromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// ApplyDefaults sets default values for any unset fields
func (c *Config) ApplyDefaults() {
	if c.Sensor.ReadInterval == 0 {
		c.Sensor.ReadInterval = 60 * time.Second
	}
	if c.Server.SubmitTimeout == 0 {
		c.Server.SubmitTimeout = 10 * time.Second
	}
	if c.Server.RetryInterval == 0 {
		c.Server.RetryInterval = 1 * time.Second
	}
	if c.Server.MaxRetryDelay == 0 {
		c.Server.MaxRetryDelay = 5 * time.Minute
	}
	if c.Buffer.Size == 0 {
		c.Buffer.Size = 100
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// OverrideFromEnv overrides config values from environment variables
func (c *Config) OverrideFromEnv() {
	if v := os.Getenv("SENSOR_ID"); v != "" {
		c.Sensor.ID = v
	}
	if v := os.Getenv("SENSOR_SOURCE_PATH"); v != "" {
		c.Sensor.SourcePath = v
	}
	if v := os.Getenv("WRITE_URL"); v != "" {
		c.Server.WriteURL = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Sensor.ID == "" {
		return fmt.Errorf("sensor ID is required")
	}
	if c.Sensor.SourcePath == "" {
		return fmt.Errorf("sensor source path is required")
	}
	if c.Server.WriteURL == "" {
		return fmt.Errorf("write URL is required")
	}
	if !strings.HasPrefix(c.Server.WriteURL, "http://") && !strings.HasPrefix(c.Server.WriteURL, "https://") {
		return fmt.Errorf("write URL must start with http:// or https://")
	}
	if c.Server.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Sensor.ReadInterval < 1*time.Second {
		return fmt.Errorf("read interval must be at least 1 second")
	}
	if c.Buffer.Size < 10 || c.Buffer.Size > 100000 {
		return fmt.Errorf("buffer size must be between 10 and 100000")
	}
	return nil
}

// String returns a safe string representation (hides the API key)
func (c *Config) String() string {
	return fmt.Sprintf("Config{Sensor: %+v, Server: [URL=%s, Key=%s], Buffer: %+v, Logging: %+v}",
		c.Sensor,
		c.Server.WriteURL,
		maskToken(c.Server.APIKey),
		c.Buffer,
		c.Logging,
	)
}

// maskToken masks all but first 4 characters of a token
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}
