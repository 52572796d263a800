package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds server-side configuration
type AppConfig struct {
	Server  ServerSettings  `yaml:"server"`
	Storage StorageSettings `yaml:"storage"`
	Logging LoggingConfig   `yaml:"logging"`
}

// ServerSettings contains HTTP server configuration
type ServerSettings struct {
	Port         int           `yaml:"port"`
	Host         string        `yaml:"host"`
	APIKey       string        `yaml:"api_key"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageSettings contains storage configuration.
// An empty DBPath runs the server on the in-memory store.
// RetentionDays of zero keeps history forever.
type StorageSettings struct {
	DBPath        string        `yaml:"db_path"`
	SensorID      string        `yaml:"sensor_id"`
	RetentionDays int           `yaml:"retention_days"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

// LoadAppConfig loads server configuration from a YAML file
func LoadAppConfig(path string) (*AppConfig, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config AppConfig
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

// ApplyDefaults sets default values for server config
func (ac *AppConfig) ApplyDefaults() {
	if ac.Server.Port == 0 {
		ac.Server.Port = 8081
	}
	if ac.Server.Host == "" {
		ac.Server.Host = "localhost"
	}
	if ac.Server.ReadTimeout == 0 {
		ac.Server.ReadTimeout = 30 * time.Second
	}
	if ac.Server.WriteTimeout == 0 {
		ac.Server.WriteTimeout = 10 * time.Second
	}
	if ac.Storage.SensorID == "" {
		ac.Storage.SensorID = "pool-01"
	}
	if ac.Storage.CleanupPeriod == 0 {
		ac.Storage.CleanupPeriod = 1 * time.Hour
	}
	if ac.Logging.Level == "" {
		ac.Logging.Level = "info"
	}
	if ac.Logging.Format == "" {
		ac.Logging.Format = "json"
	}
}

// OverrideFromEnv overrides config from environment variables
func (ac *AppConfig) OverrideFromEnv() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			ac.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		ac.Server.Host = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		ac.Server.APIKey = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		ac.Storage.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		ac.Logging.Level = v
	}
}

// Validate checks if server configuration is valid
func (ac *AppConfig) Validate() error {
	if ac.Server.Port < 1 || ac.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if ac.Server.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if ac.Storage.SensorID == "" {
		return fmt.Errorf("sensor ID is required")
	}
	if ac.Storage.RetentionDays < 0 {
		return fmt.Errorf("retention days cannot be negative")
	}
	return nil
}

// String returns a safe string representation (hides the API key)
func (ac *AppConfig) String() string {
	return fmt.Sprintf("AppConfig{Server: [%s:%d, Key=%s], Storage: %+v, Logging: %+v}",
		ac.Server.Host,
		ac.Server.Port,
		maskToken(ac.Server.APIKey),
		ac.Storage,
		ac.Logging,
	)
}
