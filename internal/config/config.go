// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxDevices is the number of physical slots on one hub.
const MaxDevices = 8

type Config struct {
	HubConfig []HubConfig `yaml:"hub_config"`
}

// HubConfig describes one gauge hub, addressed by SAL index.
type HubConfig struct {
	SalIndex          int     `yaml:"sal_index"`
	TelemetryInterval float64 `yaml:"telemetry_interval"` // seconds

	// Devices are slot names in slot order (slot = position + 1).
	// An empty name marks an unpopulated slot that is never polled.
	Devices []string `yaml:"devices"`

	Units    string `yaml:"units"`
	Location string `yaml:"location"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	HubType  string `yaml:"hub_type"`

	// ReadTimeoutMs bounds one per-device read. 0 means default.
	ReadTimeoutMs int `yaml:"read_timeout_ms"`
}

// Load reads and parses a configuration file. Validation is separate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse parses yaml configuration bytes.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	return &cfg, nil
}

// SelectHub returns the hub entry with the given SAL index.
func SelectHub(cfg *Config, salIndex int) (HubConfig, error) {
	for _, h := range cfg.HubConfig {
		if h.SalIndex == salIndex {
			return h, nil
		}
	}
	return HubConfig{}, fmt.Errorf("config: no hub entry for sal_index %d", salIndex)
}
