// internal/config/validate.go
package config

import (
	"fmt"
)

// hubTypes lists the supported hub brands.
var hubTypes = map[string]bool{
	"Mitutoyo": true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if len(cfg.HubConfig) == 0 {
		return fmt.Errorf("config: hub_config must contain at least one hub")
	}

	seen := make(map[int]bool)

	for _, h := range cfg.HubConfig {
		if h.SalIndex < 1 {
			return fmt.Errorf("config: sal_index must be >= 1, got %d", h.SalIndex)
		}
		if seen[h.SalIndex] {
			return fmt.Errorf("config: duplicate sal_index %d", h.SalIndex)
		}
		seen[h.SalIndex] = true

		if h.TelemetryInterval < 0 {
			return fmt.Errorf("hub %d: telemetry_interval must not be negative", h.SalIndex)
		}
		if len(h.Devices) == 0 {
			return fmt.Errorf("hub %d: devices must contain at least one name", h.SalIndex)
		}
		if len(h.Devices) > MaxDevices {
			return fmt.Errorf(
				"hub %d: devices lists %d names, hub has %d slots",
				h.SalIndex, len(h.Devices), MaxDevices,
			)
		}

		populated := 0
		for _, name := range h.Devices {
			if name != "" {
				populated++
			}
		}
		if populated == 0 {
			return fmt.Errorf("hub %d: every device name is empty", h.SalIndex)
		}

		if h.Host == "" {
			return fmt.Errorf("hub %d: host is required", h.SalIndex)
		}
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("hub %d: port %d out of range", h.SalIndex, h.Port)
		}
		if !hubTypes[h.HubType] {
			return fmt.Errorf("hub %d: unsupported hub_type %q", h.SalIndex, h.HubType)
		}
		if h.ReadTimeoutMs < 0 {
			return fmt.Errorf("hub %d: read_timeout_ms must not be negative", h.SalIndex)
		}
	}

	return nil
}
