// cmd/pca9685d/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/pca9685-bridge/internal/config"
	"github.com/tamzrod/pca9685-bridge/internal/controller"
	"github.com/tamzrod/pca9685-bridge/internal/i2cbus"
	"github.com/tamzrod/pca9685-bridge/internal/pca9685"
	"github.com/tamzrod/pca9685-bridge/internal/source"
	smodbus "github.com/tamzrod/pca9685-bridge/internal/source/modbus"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: pca9685d <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)
	d := cfg.Driver

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Transport + chip driver
	// --------------------

	bus, err := i2cbus.Open(i2cbus.Config{
		Name:    d.Bus,
		Addr:    d.Address,
		SpeedHz: d.BusSpeedHz,
	})
	if err != nil {
		log.Fatalf("i2c open failed: %v", err)
	}
	defer bus.Close()

	dev := pca9685.New(bus)

	// --------------------
	// Command source
	// --------------------

	client, err := smodbus.New(smodbus.Config{
		Endpoint: d.Source.Endpoint,
		UnitID:   d.Source.UnitID,
		Address:  d.Source.Address,
		Timeout:  time.Duration(d.Source.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("command source connect failed: %v", err)
	}
	defer client.Close()

	poller, err := source.New(source.Config{
		Interval: time.Duration(d.Source.IntervalMs) * time.Millisecond,
	}, client)
	if err != nil {
		log.Fatalf("command source build failed: %v", err)
	}

	// --------------------
	// Control loop
	// --------------------

	ctrl, err := controller.New(controller.Config{
		PeriodUs:    d.PeriodUs,
		TestPattern: d.TestPattern,
	}, dev, poller)
	if err != nil {
		log.Fatalf("controller build failed: %v", err)
	}

	if err := ctrl.Init(); err != nil {
		log.Fatalf("chip init failed: %v", err)
	}
	log.Printf("pca9685 at 0x%02X on bus %q: %d us period, source %s",
		d.Address, d.Bus, d.PeriodUs, d.Source.Endpoint)

	// Admin commands: SIGUSR1 enters test-pattern mode, SIGUSR2 queues
	// a chip reset.
	admin := make(chan os.Signal, 1)
	signal.Notify(admin, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for sig := range admin {
			switch sig {
			case syscall.SIGUSR1:
				log.Printf("entering test-pattern mode")
				ctrl.EnterTestMode()
			case syscall.SIGUSR2:
				log.Printf("chip reset requested")
				ctrl.RequestReset()
			}
		}
	}()

	// Status log ticker.
	go func() {
		ticker := time.NewTicker(time.Duration(d.StatusIntervalS) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Printf("status: %s", ctrl.Status())
			}
		}
	}()

	ctrl.Run(ctx)

	log.Printf("shutting down, final status: %s", ctrl.Status())
}
