// internal/config/validate_test.go
package config

import "testing"

// helper to build a config quickly
func cfg(address, periodUs uint16) *Config {
	return &Config{
		Driver: DriverConfig{
			Bus:      "1",
			Address:  address,
			PeriodUs: periodUs,
			Source: SourceConfig{
				Endpoint: "127.0.0.1:1502",
			},
		},
	}
}

// ---- tests ----

func TestValidate_Defaults(t *testing.T) {
	c := cfg(0, 0) // address and period left for Normalize

	if err := Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_AddressRange(t *testing.T) {
	if err := Validate(cfg(0x3F, 20000)); err == nil {
		t.Fatalf("expected error for address below range")
	}
	if err := Validate(cfg(0x80, 20000)); err == nil {
		t.Fatalf("expected error for address above range")
	}
	if err := Validate(cfg(0x40, 20000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(cfg(0x7F, 20000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PeriodRange(t *testing.T) {
	if err := Validate(cfg(0x40, 655)); err == nil {
		t.Fatalf("expected error for period below range")
	}
	if err := Validate(cfg(0x40, 41667)); err == nil {
		t.Fatalf("expected error for period above range")
	}
	if err := Validate(cfg(0x40, 656)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(cfg(0x40, 41666)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EndpointRequired(t *testing.T) {
	c := cfg(0x40, 20000)
	c.Driver.Source.Endpoint = ""

	if err := Validate(c); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	c := cfg(0, 0)

	Normalize(c)

	d := c.Driver
	if d.Address != 0x40 {
		t.Errorf("Address = 0x%02X, want 0x40", d.Address)
	}
	if d.BusSpeedHz != 100000 {
		t.Errorf("BusSpeedHz = %d, want 100000", d.BusSpeedHz)
	}
	if d.PeriodUs != 20000 {
		t.Errorf("PeriodUs = %d, want 20000", d.PeriodUs)
	}
	if d.Source.IntervalMs != 10 {
		t.Errorf("Source.IntervalMs = %d, want 10", d.Source.IntervalMs)
	}
	if d.Source.TimeoutMs != 1000 {
		t.Errorf("Source.TimeoutMs = %d, want 1000", d.Source.TimeoutMs)
	}
	if d.StatusIntervalS != 10 {
		t.Errorf("StatusIntervalS = %d, want 10", d.StatusIntervalS)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	c := cfg(0x41, 10000)
	c.Driver.BusSpeedHz = 400000
	c.Driver.Source.IntervalMs = 25

	Normalize(c)

	if c.Driver.Address != 0x41 || c.Driver.PeriodUs != 10000 ||
		c.Driver.BusSpeedHz != 400000 || c.Driver.Source.IntervalMs != 25 {
		t.Fatalf("explicit values overwritten: %+v", c.Driver)
	}
}
