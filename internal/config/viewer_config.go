package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ViewerConfig holds configuration for the viewing surface
type ViewerConfig struct {
	ReadURL           string           `yaml:"read_url"`
	PollInterval      time.Duration    `yaml:"poll_interval"`
	FetchTimeout      time.Duration    `yaml:"fetch_timeout"`
	AnimationDuration time.Duration    `yaml:"animation_duration"`
	Thresholds        ThresholdConfig  `yaml:"thresholds"`
	Logging           LoggingConfig    `yaml:"logging"`
}

// ThresholdConfig defines the feel category boundaries in °C
type ThresholdConfig struct {
	Cold    float64 `yaml:"cold"`
	Perfect float64 `yaml:"perfect"`
}

// LoadViewerConfig loads viewer configuration from a YAML file
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config ViewerConfig
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

// ApplyDefaults sets default values for viewer config
func (vc *ViewerConfig) ApplyDefaults() {
	if vc.PollInterval == 0 {
		vc.PollInterval = 5 * time.Second
	}
	if vc.FetchTimeout == 0 {
		vc.FetchTimeout = 10 * time.Second
	}
	if vc.AnimationDuration == 0 {
		vc.AnimationDuration = 4 * time.Second
	}
	if vc.Thresholds.Cold == 0 {
		vc.Thresholds.Cold = 20
	}
	if vc.Thresholds.Perfect == 0 {
		vc.Thresholds.Perfect = 26
	}
	if vc.Logging.Level == "" {
		vc.Logging.Level = "info"
	}
	if vc.Logging.Format == "" {
		vc.Logging.Format = "console"
	}
}

// OverrideFromEnv overrides config from environment variables
func (vc *ViewerConfig) OverrideFromEnv() {
	if v := os.Getenv("READ_URL"); v != "" {
		vc.ReadURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		vc.Logging.Level = v
	}
}

// Validate checks if viewer configuration is valid
func (vc *ViewerConfig) Validate() error {
	if vc.ReadURL == "" {
		return fmt.Errorf("read URL is required")
	}
	if !strings.HasPrefix(vc.ReadURL, "http://") && !strings.HasPrefix(vc.ReadURL, "https://") {
		return fmt.Errorf("read URL must start with http:// or https://")
	}
	if vc.PollInterval < 1*time.Second {
		return fmt.Errorf("poll interval must be at least 1 second")
	}
	if vc.AnimationDuration <= 0 {
		return fmt.Errorf("animation duration must be positive")
	}
	if vc.Thresholds.Cold >= vc.Thresholds.Perfect {
		return fmt.Errorf("cold threshold must be below perfect threshold")
	}
	return nil
}
