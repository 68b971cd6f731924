// internal/config/config.go
package config

type Config struct {
	Driver DriverConfig `yaml:"driver"`
}

// ---- DRIVER ----

type DriverConfig struct {
	// Bus is the I2C bus name or number ("1", "/dev/i2c-1", ...).
	Bus string `yaml:"bus"`
	// Address is the chip's 7-bit I2C address.
	Address uint16 `yaml:"address"`
	// BusSpeedHz optionally overrides the I2C clock.
	BusSpeedHz int64 `yaml:"bus_speed_hz"`

	// PeriodUs is the startup PWM period in microseconds.
	PeriodUs uint16 `yaml:"period_us"`
	// TestPattern starts the driver in test-pattern mode.
	TestPattern bool `yaml:"test_pattern"`

	// StatusIntervalS is the status log interval in seconds.
	StatusIntervalS int `yaml:"status_interval_s"`

	Source SourceConfig `yaml:"source"`
}

// ---- COMMAND SOURCE ----

type SourceConfig struct {
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
	// Address is the first holding register of the command block.
	Address    uint16 `yaml:"address"`
	IntervalMs int    `yaml:"interval_ms"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}
