// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a valid hub entry quickly
func hubEntry(salIndex int, devices ...string) HubConfig {
	return HubConfig{
		SalIndex:          salIndex,
		TelemetryInterval: 1,
		Devices:           devices,
		Units:             "um",
		Location:          "test stand",
		Host:              "127.0.0.1",
		Port:              9999,
		HubType:           "Mitutoyo",
	}
}

// ---- tests ----

func TestValidate_OK(t *testing.T) {
	cfg := &Config{HubConfig: []HubConfig{hubEntry(1, "gauge-A", "gauge-B")}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptySlotAllowed(t *testing.T) {
	cfg := &Config{HubConfig: []HubConfig{hubEntry(1, "gauge-A", "", "gauge-C")}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"no hubs", &Config{}, "at least one hub"},
		{
			"no devices",
			&Config{HubConfig: []HubConfig{hubEntry(1)}},
			"at least one name",
		},
		{
			"all names empty",
			&Config{HubConfig: []HubConfig{hubEntry(1, "", "", "")}},
			"every device name is empty",
		},
		{
			"too many devices",
			&Config{HubConfig: []HubConfig{
				hubEntry(1, "a", "b", "c", "d", "e", "f", "g", "h", "i"),
			}},
			"slots",
		},
		{
			"zero sal index",
			&Config{HubConfig: []HubConfig{hubEntry(0, "gauge-A")}},
			"sal_index",
		},
		{
			"duplicate sal index",
			&Config{HubConfig: []HubConfig{hubEntry(1, "gauge-A"), hubEntry(1, "gauge-B")}},
			"duplicate",
		},
		{
			"unknown hub type",
			&Config{HubConfig: []HubConfig{func() HubConfig {
				h := hubEntry(1, "gauge-A")
				h.HubType = "Heidenhain"
				return h
			}()}},
			"hub_type",
		},
		{
			"missing host",
			&Config{HubConfig: []HubConfig{func() HubConfig {
				h := hubEntry(1, "gauge-A")
				h.Host = ""
				return h
			}()}},
			"host",
		},
		{
			"bad port",
			&Config{HubConfig: []HubConfig{func() HubConfig {
				h := hubEntry(1, "gauge-A")
				h.Port = 0
				return h
			}()}},
			"port",
		},
	}

	for _, tc := range cases {
		err := Validate(tc.cfg)
		if err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestParseAndSelect(t *testing.T) {
	raw := []byte(`
hub_config:
  - sal_index: 1
    telemetry_interval: 1
    devices: ["gauge-A", "gauge-B"]
    units: um
    location: test stand
    host: 127.0.0.1
    port: 9999
    hub_type: Mitutoyo
  - sal_index: 2
    telemetry_interval: 0.5
    devices: ["gauge-C"]
    units: mm
    location: dome
    host: 10.0.0.5
    port: 4001
    hub_type: Mitutoyo
`)

	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}

	h, err := SelectHub(cfg, 2)
	if err != nil {
		t.Fatalf("SelectHub err=%v", err)
	}
	if h.Host != "10.0.0.5" || h.Port != 4001 {
		t.Fatalf("wrong hub selected: %+v", h)
	}

	if _, err := SelectHub(cfg, 3); err == nil {
		t.Fatal("expected error for missing sal_index")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{HubConfig: []HubConfig{func() HubConfig {
		h := hubEntry(1, "gauge-A")
		h.TelemetryInterval = 0
		h.ReadTimeoutMs = 0
		return h
	}()}}

	Normalize(cfg)

	if got := cfg.HubConfig[0].TelemetryInterval; got != DefaultTelemetryIntervalSec {
		t.Fatalf("telemetry_interval default = %v", got)
	}
	if got := cfg.HubConfig[0].ReadTimeoutMs; got != DefaultReadTimeoutMs {
		t.Fatalf("read_timeout_ms default = %v", got)
	}
}
