// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/pca9685-bridge/internal/pca9685"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	d := cfg.Driver

	// ------------------------------------------------------------
	// CHIP ADDRESSING
	// ------------------------------------------------------------

	// The PCA9685 decodes 0x40..0x7F depending on the address pins.
	// 0 is allowed here and defaulted by Normalize.
	if d.Address != 0 && (d.Address < 0x40 || d.Address > 0x7F) {
		return fmt.Errorf("config: address 0x%02X outside PCA9685 range [0x40, 0x7F]", d.Address)
	}

	if d.BusSpeedHz < 0 {
		return fmt.Errorf("config: bus_speed_hz must be >= 0")
	}

	// ------------------------------------------------------------
	// PWM TIMING
	// ------------------------------------------------------------

	if d.PeriodUs != 0 && (d.PeriodUs < pca9685.PeriodMinUs || d.PeriodUs > pca9685.PeriodMaxUs) {
		return fmt.Errorf("config: period_us %d outside [%d, %d]",
			d.PeriodUs, pca9685.PeriodMinUs, pca9685.PeriodMaxUs)
	}

	// ------------------------------------------------------------
	// COMMAND SOURCE
	// ------------------------------------------------------------

	if d.Source.Endpoint == "" {
		return fmt.Errorf("config: source endpoint required")
	}
	if d.Source.IntervalMs < 0 {
		return fmt.Errorf("config: source interval_ms must be >= 0")
	}
	if d.Source.TimeoutMs < 0 {
		return fmt.Errorf("config: source timeout_ms must be >= 0")
	}

	if d.StatusIntervalS < 0 {
		return fmt.Errorf("config: status_interval_s must be >= 0")
	}

	return nil
}
