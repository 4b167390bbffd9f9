// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTelemetryIntervalSec = 1.0
	DefaultReadTimeoutMs        = 5000
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i := range cfg.HubConfig {
		h := &cfg.HubConfig[i]

		if h.TelemetryInterval == 0 {
			h.TelemetryInterval = DefaultTelemetryIntervalSec
		}
		if h.ReadTimeoutMs == 0 {
			h.ReadTimeoutMs = DefaultReadTimeoutMs
		}
	}
}
