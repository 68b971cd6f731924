// internal/pca9685/pca9685.go
//
// Register-level driver for the NXP PCA9685 16-channel PWM controller
// (the chip on the Adafruit 16-channel PWM/servo board).
// Datasheet: https://www.nxp.com/docs/en/data-sheet/PCA9685.pdf
package pca9685

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const (
	// RegMode1 is the MODE1 register (sleep, restart, auto-increment).
	RegMode1 = 0x00
	// RegPrescale is the oscillator prescaler register.
	RegPrescale = 0xFE
	// RegLED0OnL is the ON-low register of channel 0. Channel N uses
	// four consecutive registers starting at RegLED0OnL + 4*N.
	RegLED0OnL = 0x06

	// DefaultAddr is the chip's default I2C address.
	DefaultAddr = 0x40

	// NumChannels is the number of PWM outputs.
	NumChannels = 16

	// MaxValue is the largest plain duty value. 4096 is reserved as the
	// full-on / full-off sentinel in the ON / OFF register.
	MaxValue = 4096 - 1

	// PeriodMinUs and PeriodMaxUs are the chip's physical PWM period
	// limits, derived from the 25 MHz oscillator and the 8-bit prescaler.
	PeriodMinUs = 656
	PeriodMaxUs = 41666

	oscClockHz   = 25000000
	prescaleMin  = 3
	prescaleMax  = 255
	oscStabilize = 5 * time.Millisecond

	mode1Sleep   = 0x10
	mode1Restart = 0xA1 // restart + auto-increment + allcall
)

// Transport is the raw bus primitive the driver issues transfers on.
// The driver only ever does pure writes or a write-address-then-read-
// one-byte transaction. periph.io's i2c.Dev satisfies this directly.
type Transport interface {
	Tx(w, r []byte) error
}

// Dev drives one PCA9685. The transport is exclusively owned by this
// instance; all methods must be called from a single goroutine except
// ErrorCount, which is safe to read concurrently.
type Dev struct {
	bus Transport

	commsErrors atomic.Uint64

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New returns a Dev on the given transport. No bus traffic is issued
// until Reset or SetPWMFreq is called.
func New(bus Transport) *Dev {
	return &Dev{
		bus:   bus,
		sleep: time.Sleep,
	}
}

// ErrorCount returns the cumulative number of failed bus transfers.
// The counter is monotonic and never reset.
func (d *Dev) ErrorCount() uint64 {
	return d.commsErrors.Load()
}

// Reset writes MODE1 = 0, forcing a known power-on-like state.
func (d *Dev) Reset() error {
	return d.write8(RegMode1, 0x00)
}

// SetPin sets channel num to a duty value in [0, 4095] without the
// caller having to deal with on/off tick placement. 0 and 4095 map to
// the chip's dedicated full-off and full-on encodings.
func (d *Dev) SetPin(num, val uint16) error {
	if val > MaxValue {
		val = MaxValue
	}

	switch val {
	case MaxValue:
		// Special value for signal fully on.
		return d.SetPWM(num, 4096, 0)
	case 0:
		// Special value for signal fully off.
		return d.SetPWM(num, 0, 4096)
	default:
		return d.SetPWM(num, 0, val)
	}
}

// SetPWM writes the on/off tick pair for channel num as a single
// 5-byte transfer: register address, ON low/high, OFF low/high.
func (d *Dev) SetPWM(num, on, off uint16) error {
	if num >= NumChannels {
		return errors.Errorf("pca9685: channel %d out of range [0, %d]", num, NumChannels-1)
	}

	msg := [5]byte{
		RegLED0OnL + 4*byte(num),
		byte(on),
		byte(on >> 8),
		byte(off),
		byte(off >> 8),
	}

	if err := d.bus.Tx(msg[:], nil); err != nil {
		d.commsErrors.Add(1)
		return errors.Wrapf(err, "pca9685: set pwm channel %d", num)
	}
	return nil
}

// SetPWMFreq reconfigures the prescaler for the given PWM carrier
// frequency in Hz. The chip must be put to sleep to change the
// prescaler, so this sequences sleep, prescale, wake and a 5 ms
// oscillator stabilization wait before setting the restart bit.
//
// Any step's failure aborts the sequence immediately and may leave the
// chip mid-sequence (e.g. asleep); the datasheet's guidance is to retry
// the whole sequence.
func (d *Dev) SetPWMFreq(freq float64) error {
	prescale := Prescale(freq)

	oldmode, err := d.read8(RegMode1)
	if err != nil {
		return err
	}

	if err := d.write8(RegMode1, (oldmode&0x7F)|mode1Sleep); err != nil {
		return err
	}
	if err := d.write8(RegPrescale, prescale); err != nil {
		return err
	}
	if err := d.write8(RegMode1, oldmode); err != nil {
		return err
	}

	// The oscillator needs at least 500 us after wake; the vendor
	// driver waits 5 ms before asserting restart.
	d.sleep(oscStabilize)

	return d.write8(RegMode1, oldmode|mode1Restart)
}

// Prescale converts a PWM frequency in Hz to the chip's prescaler
// byte: trunc(25 MHz / 4096 / freq - 1 + 0.5), clamped to the chip's
// legal [3, 255] range.
func Prescale(freq float64) uint8 {
	v := oscClockHz/4096.0/freq - 1 + 0.5
	if math.IsNaN(v) || v < prescaleMin {
		v = prescaleMin
	} else if v > prescaleMax {
		v = prescaleMax
	}
	return uint8(v)
}

func (d *Dev) read8(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := d.bus.Tx([]byte{reg}, buf[:]); err != nil {
		d.commsErrors.Add(1)
		return 0, errors.Wrapf(err, "pca9685: read reg 0x%02X", reg)
	}
	return buf[0], nil
}

func (d *Dev) write8(reg, val uint8) error {
	if err := d.bus.Tx([]byte{reg, val}, nil); err != nil {
		d.commsErrors.Add(1)
		return errors.Wrapf(err, "pca9685: write reg 0x%02X", reg)
	}
	return nil
}
