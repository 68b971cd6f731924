// internal/i2cbus/i2cbus.go
package i2cbus

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Bus is a device handle on a Linux I2C bus. It satisfies
// pca9685.Transport.
type Bus struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// Config is minimal transport config.
type Config struct {
	// Name is a periph bus name or number ("1", "/dev/i2c-1", ...).
	// Empty selects the first available bus.
	Name string
	// Addr is the 7-bit device address.
	Addr uint16
	// SpeedHz optionally lowers/raises the bus clock. 0 leaves the
	// bus default untouched.
	SpeedHz int64
}

var (
	hostOnce sync.Once
	hostErr  error
)

// Open initializes the host drivers (once per process) and opens a
// handle to the device at cfg.Addr.
func Open(cfg Config) (*Bus, error) {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, errors.Wrap(hostErr, "i2cbus: host init")
	}

	bus, err := i2creg.Open(cfg.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "i2cbus: open %q", cfg.Name)
	}

	if cfg.SpeedHz > 0 {
		if err := bus.SetSpeed(physic.Frequency(cfg.SpeedHz) * physic.Hertz); err != nil {
			bus.Close()
			return nil, errors.Wrapf(err, "i2cbus: set speed %d Hz", cfg.SpeedHz)
		}
	}

	return &Bus{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: cfg.Addr},
	}, nil
}

// Tx performs one write / write-then-read transaction.
func (b *Bus) Tx(w, r []byte) error {
	return b.dev.Tx(w, r)
}

// Close releases the bus.
func (b *Bus) Close() error {
	return b.bus.Close()
}
