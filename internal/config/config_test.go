package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfigFile creates a temp YAML file and returns its path
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
sensor:
  id: pool-01
  source_path: /var/run/probe/temperature
server:
  write_url: http://localhost:8081/write
  api_key: secret-key
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Sensor.ReadInterval != 60*time.Second {
		t.Errorf("ReadInterval = %v, want 60s", config.Sensor.ReadInterval)
	}
	if config.Server.SubmitTimeout != 10*time.Second {
		t.Errorf("SubmitTimeout = %v, want 10s", config.Server.SubmitTimeout)
	}
	if config.Server.RetryInterval != time.Second {
		t.Errorf("RetryInterval = %v, want 1s", config.Server.RetryInterval)
	}
	if config.Server.MaxRetryDelay != 5*time.Minute {
		t.Errorf("MaxRetryDelay = %v, want 5m", config.Server.MaxRetryDelay)
	}
	if config.Buffer.Size != 100 {
		t.Errorf("Buffer.Size = %d, want 100", config.Buffer.Size)
	}
	if config.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", config.Logging.Level)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
sensor:
  id: pool-01
  source_path: /var/run/probe/temperature
server:
  write_url: http://localhost:8081/write
  api_key: file-key
`)

	t.Setenv("SENSOR_ID", "pool-02")
	t.Setenv("API_KEY", "env-key")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Sensor.ID != "pool-02" {
		t.Errorf("Sensor.ID = %q, want pool-02", config.Sensor.ID)
	}
	if config.Server.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", config.Server.APIKey)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", config.Logging.Level)
	}
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing sensor id",
			content: `
sensor:
  source_path: /var/run/probe/temperature
server:
  write_url: http://localhost:8081/write
  api_key: secret-key
`,
		},
		{
			name: "missing source path",
			content: `
sensor:
  id: pool-01
server:
  write_url: http://localhost:8081/write
  api_key: secret-key
`,
		},
		{
			name: "missing write url",
			content: `
sensor:
  id: pool-01
  source_path: /var/run/probe/temperature
server:
  api_key: secret-key
`,
		},
		{
			name: "bad url scheme",
			content: `
sensor:
  id: pool-01
  source_path: /var/run/probe/temperature
server:
  write_url: ftp://localhost/write
  api_key: secret-key
`,
		},
		{
			name: "missing api key",
			content: `
sensor:
  id: pool-01
  source_path: /var/run/probe/temperature
server:
  write_url: http://localhost:8081/write
`,
		},
		{
			name: "buffer too small",
			content: `
sensor:
  id: pool-01
  source_path: /var/run/probe/temperature
server:
  write_url: http://localhost:8081/write
  api_key: secret-key
buffer:
  size: 5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestConfig_StringMasksAPIKey(t *testing.T) {
	config := &Config{}
	config.Server.APIKey = "super-secret-key"
	config.ApplyDefaults()

	out := config.String()
	if strings.Contains(out, "super-secret-key") {
		t.Error("String() leaks the API key")
	}
	if !strings.Contains(out, "supe****") {
		t.Errorf("String() = %q, want masked key prefix", out)
	}
}

func TestLoadAppConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  api_key: secret-key
`)

	config, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if config.Server.Port != 8081 {
		t.Errorf("Port = %d, want 8081", config.Server.Port)
	}
	if config.Server.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", config.Server.Host)
	}
	if config.Storage.SensorID != "pool-01" {
		t.Errorf("SensorID = %q, want pool-01", config.Storage.SensorID)
	}
	if config.Storage.DBPath != "" {
		t.Errorf("DBPath = %q, want empty (memory store)", config.Storage.DBPath)
	}
	if config.Storage.RetentionDays != 0 {
		t.Errorf("RetentionDays = %d, want 0 (keep forever)", config.Storage.RetentionDays)
	}
	if config.Storage.CleanupPeriod != time.Hour {
		t.Errorf("CleanupPeriod = %v, want 1h", config.Storage.CleanupPeriod)
	}
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  api_key: secret-key
`)

	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_PATH", "/var/lib/pool/readings.db")

	config, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if config.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", config.Server.Port)
	}
	if config.Storage.DBPath != "/var/lib/pool/readings.db" {
		t.Errorf("DBPath = %q", config.Storage.DBPath)
	}
}

func TestLoadAppConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing api key",
			content: `server: {}`,
		},
		{
			name: "bad port",
			content: `
server:
  port: 70000
  api_key: secret-key
`,
		},
		{
			name: "negative retention",
			content: `
server:
  api_key: secret-key
storage:
  retention_days: -1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadAppConfig(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadViewerConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
read_url: http://localhost:8081/read
`)

	config, err := LoadViewerConfig(path)
	if err != nil {
		t.Fatalf("LoadViewerConfig failed: %v", err)
	}

	if config.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", config.PollInterval)
	}
	if config.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", config.FetchTimeout)
	}
	if config.AnimationDuration != 4*time.Second {
		t.Errorf("AnimationDuration = %v, want 4s", config.AnimationDuration)
	}
	if config.Thresholds.Cold != 20 {
		t.Errorf("Thresholds.Cold = %v, want 20", config.Thresholds.Cold)
	}
	if config.Thresholds.Perfect != 26 {
		t.Errorf("Thresholds.Perfect = %v, want 26", config.Thresholds.Perfect)
	}
}

func TestLoadViewerConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing read url",
			content: `poll_interval: 5s`,
		},
		{
			name: "bad url scheme",
			content: `
read_url: ws://localhost:8081/read
`,
		},
		{
			name: "poll interval too short",
			content: `
read_url: http://localhost:8081/read
poll_interval: 100ms
`,
		},
		{
			name: "inverted thresholds",
			content: `
read_url: http://localhost:8081/read
thresholds:
  cold: 26
  perfect: 20
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadViewerConfig(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadViewerConfig_EnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
read_url: http://localhost:8081/read
`)

	t.Setenv("READ_URL", "http://pool.example.com/read")

	config, err := LoadViewerConfig(path)
	if err != nil {
		t.Fatalf("LoadViewerConfig failed: %v", err)
	}
	if config.ReadURL != "http://pool.example.com/read" {
		t.Errorf("ReadURL = %q", config.ReadURL)
	}
}
