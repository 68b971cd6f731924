// internal/source/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/pca9685-bridge/internal/source"
)

// BlockRegisters is the width of the command block: period_us followed
// by one pulse_width_us register per channel.
const BlockRegisters = 1 + source.NumChannels

// Client reads the pwm command block from a Modbus TCP command memory.
// This adapter is geometry-only: it fetches the block and unpacks it.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
	address uint16
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Address  uint16 // first register of the command block
	Timeout  time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("source modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
		address: cfg.Address,
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ReadCommand implements source.Client: one holding-register block read
// per call, decoded big-endian.
func (c *Client) ReadCommand() (source.Command, error) {
	var cmd source.Command

	raw, err := c.client.ReadHoldingRegisters(c.address, BlockRegisters)
	if err != nil {
		return cmd, err
	}
	if len(raw) != 2*BlockRegisters {
		return cmd, fmt.Errorf("source modbus: short command block: %d bytes", len(raw))
	}

	cmd.PeriodUs = uint16(raw[0])<<8 | uint16(raw[1])
	for i := 0; i < source.NumChannels; i++ {
		o := 2 * (i + 1)
		cmd.PulseWidthUs[i] = uint16(raw[o])<<8 | uint16(raw[o+1])
	}
	return cmd, nil
}
