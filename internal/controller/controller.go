// internal/controller/controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/tamzrod/pca9685-bridge/internal/pca9685"
	"github.com/tamzrod/pca9685-bridge/internal/source"
	"github.com/tamzrod/pca9685-bridge/internal/status"
)

// Device is the slice of the chip driver the loop needs.
type Device interface {
	SetPin(num, val uint16) error
	SetPWMFreq(freq float64) error
	Reset() error
	ErrorCount() uint64
}

// Source delivers the most recent pwm command snapshot.
type Source interface {
	// Subscribe starts delivery. Called once, lazily, on the first
	// normal-mode tick.
	Subscribe(ctx context.Context)
	// Poll returns the latest command and whether it is new since the
	// previous Poll. Non-blocking.
	Poll() (source.Command, bool)
}

// testRampStep is the per-tick increment of the test pattern ramp.
const testRampStep = 4096 / 10

// Config is the loop's startup config.
type Config struct {
	// PeriodUs is the initial PWM period in microseconds. Must lie in
	// [pca9685.PeriodMinUs, pca9685.PeriodMaxUs].
	PeriodUs uint16
	// TestPattern starts the loop in test-pattern mode.
	TestPattern bool
}

// Controller is the periodic control loop that keeps the chip's
// outputs synchronized with the latest commanded values.
//
// All mutable loop state (per-channel last-applied table, period,
// ramp) is owned by the tick goroutine; only the mode flag and the
// reset request are touched from outside.
type Controller struct {
	dev Device
	src Source

	mode   atomic.Int32
	resets chan struct{}

	periodUs uint16
	pwmFreq  float64

	current    [pca9685.NumChannels]uint16
	testPWM    uint16
	subscribed bool
}

// New creates a controller. No bus traffic is issued until Init.
func New(cfg Config, dev Device, src Source) (*Controller, error) {
	if dev == nil {
		return nil, errors.New("controller: device required")
	}
	if src == nil {
		return nil, errors.New("controller: source required")
	}
	if cfg.PeriodUs < pca9685.PeriodMinUs || cfg.PeriodUs > pca9685.PeriodMaxUs {
		return nil, errors.New("controller: period out of range")
	}

	c := &Controller{
		dev:      dev,
		src:      src,
		resets:   make(chan struct{}, 1),
		periodUs: cfg.PeriodUs,
		pwmFreq:  1e6 / float64(cfg.PeriodUs),
	}
	if cfg.TestPattern {
		c.mode.Store(int32(status.ModeTestPattern))
	}
	return c, nil
}

// Init puts the chip in a known state and applies the startup
// frequency. The loop must not be started if Init fails.
func (c *Controller) Init() error {
	if err := c.dev.Reset(); err != nil {
		return err
	}
	return c.dev.SetPWMFreq(c.pwmFreq)
}

// Mode returns the current operating mode.
func (c *Controller) Mode() status.Mode {
	return status.Mode(c.mode.Load())
}

// EnterTestMode switches to test-pattern mode, effective on the next
// tick.
func (c *Controller) EnterTestMode() {
	c.mode.Store(int32(status.ModeTestPattern))
}

// RequestReset queues a chip reset to run at the top of the next tick,
// keeping the loop goroutine the sole bus owner. Redundant requests
// collapse into one.
func (c *Controller) RequestReset() {
	select {
	case c.resets <- struct{}{}:
	default:
	}
}

// Status returns the driver state for external inspection.
func (c *Controller) Status() status.Snapshot {
	return status.Snapshot{
		Mode:        c.Mode(),
		CommsErrors: c.dev.ErrorCount(),
	}
}

// Interval returns the current tick interval.
func (c *Controller) Interval() time.Duration {
	return time.Duration(c.periodUs) * time.Microsecond
}

// Tick runs one loop invocation. Never aborts: per-channel failures
// are logged and retried naturally on a later tick.
func (c *Controller) Tick(ctx context.Context) {
	select {
	case <-c.resets:
		if err := c.dev.Reset(); err != nil {
			log.Printf("controller: reset failed: %v", err)
		}
	default:
	}

	if c.Mode() == status.ModeTestPattern {
		c.tickTest()
		return
	}
	c.tickNormal(ctx)
}

// tickTest drives an incrementing ramp uniformly across all channels,
// wrapping to 0 once it passes 4096.
func (c *Controller) tickTest() {
	if c.testPWM > 4096 {
		c.testPWM = 0
	}

	for i := 0; i < pca9685.NumChannels; i++ {
		if err := c.dev.SetPin(uint16(i), c.testPWM); err != nil {
			log.Printf("controller: test pattern channel %d: %v", i, err)
		}
	}

	c.testPWM += testRampStep
}

func (c *Controller) tickNormal(ctx context.Context) {
	if !c.subscribed {
		c.src.Subscribe(ctx)
		c.subscribed = true
	}

	cmd, fresh := c.src.Poll()
	if !fresh {
		return
	}

	if cmd.PeriodUs != c.periodUs &&
		cmd.PeriodUs >= pca9685.PeriodMinUs &&
		cmd.PeriodUs <= pca9685.PeriodMaxUs {
		c.periodUs = cmd.PeriodUs
		c.pwmFreq = 1e6 / float64(c.periodUs)
		// Bookkeeping only: the prescaler stays untouched until an
		// explicit reconfiguration.
		log.Printf("controller: period now %d us (%.2f Hz)", c.periodUs, c.pwmFreq)
	}

	for i := 0; i < pca9685.NumChannels; i++ {
		// Comparing in float first keeps the 4096 boundary and the
		// pulse_width==0 case (+Inf) out of the uint16 conversion.
		v := float64(c.periodUs)/float64(cmd.PulseWidthUs[i])*4096 + 0.5
		if v >= 4096 {
			log.Printf("controller: channel %d value out of range [0, 4096] (pulse width %d us)",
				i, cmd.PulseWidthUs[i])
			continue
		}

		newValue := uint16(v)
		if newValue == c.current[i] {
			continue
		}
		if err := c.dev.SetPin(uint16(i), newValue); err != nil {
			log.Printf("controller: channel %d: %v", i, err)
			continue
		}
		c.current[i] = newValue
	}
}
