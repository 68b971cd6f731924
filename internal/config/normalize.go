// internal/config/normalize.go
package config

import "github.com/tamzrod/pca9685-bridge/internal/pca9685"

// Defaults match the original board bring-up: 0x40 chip address,
// 100 kHz bus clock, 50 Hz servo period, 10 ms command poll.
const (
	defaultBusSpeedHz      = 100000
	defaultPeriodUs        = 20000
	defaultSourceInterval  = 10
	defaultSourceTimeoutMs = 1000
	defaultStatusInterval  = 10
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Driver

	if d.Address == 0 {
		d.Address = pca9685.DefaultAddr
	}
	if d.BusSpeedHz == 0 {
		d.BusSpeedHz = defaultBusSpeedHz
	}
	if d.PeriodUs == 0 {
		d.PeriodUs = defaultPeriodUs
	}
	if d.StatusIntervalS == 0 {
		d.StatusIntervalS = defaultStatusInterval
	}
	if d.Source.IntervalMs == 0 {
		d.Source.IntervalMs = defaultSourceInterval
	}
	if d.Source.TimeoutMs == 0 {
		d.Source.TimeoutMs = defaultSourceTimeoutMs
	}
}
