// internal/registry/registry.go
package registry

import (
	"fmt"

	"github.com/tamzrod/pmdhub/internal/config"
)

// Device is one measurement channel on the hub.
// Index is the stable position in the configured slot array;
// the hub addresses it as slot Index+1.
type Device struct {
	Index    int
	Name     string
	Location string
	Kind     string
}

// Load derives the polling registry from a validated hub entry.
// Slots with empty names are unpopulated and are skipped entirely.
// The returned order is the slot order and defines polling order.
func Load(h config.HubConfig) ([]Device, error) {
	if len(h.Devices) == 0 {
		return nil, fmt.Errorf("registry: hub %d has no devices configured", h.SalIndex)
	}

	devices := make([]Device, 0, len(h.Devices))
	for i, name := range h.Devices {
		if name == "" {
			continue
		}
		devices = append(devices, Device{
			Index:    i,
			Name:     name,
			Location: h.Location,
			Kind:     h.HubType,
		})
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("registry: hub %d has only empty device names", h.SalIndex)
	}

	return devices, nil
}
