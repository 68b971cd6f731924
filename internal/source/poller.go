// internal/source/poller.go
package source

import (
	"errors"
	"sync"
	"time"
)

// Client reads one command snapshot from the command memory.
// The poller depends on this and nothing else about the transport.
type Client interface {
	ReadCommand() (Command, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader that keeps a Mailbox topped up
// with the latest command snapshot.
type Poller struct {
	cfg    Config
	client Client
	box    Mailbox
	once   sync.Once
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("source: interval must be > 0")
	}
	if client == nil {
		return nil, errors.New("source: client required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// Poll returns the latest command and whether it is new since the
// previous Poll. Non-blocking; safe to call while the runner is live.
func (p *Poller) Poll() (Command, bool) {
	return p.box.Poll()
}
