// internal/source/source.go
package source

import "sync"

// NumChannels is the width of a pwm command vector.
const NumChannels = 16

// Command is one pwm demand snapshot delivered by the external
// controller. Immutable once produced; a fresh snapshot replaces the
// prior one wholesale.
type Command struct {
	// PeriodUs is the desired overall PWM period in microseconds.
	PeriodUs uint16
	// PulseWidthUs holds the target pulse width per channel in
	// microseconds.
	PulseWidthUs [NumChannels]uint16
}

// Mailbox is a single-slot latest-value store between the command
// poller and the control loop. The producer overwrites, the consumer
// polls; the last write before a poll wins, so the consumer sees at
// most one poll interval of staleness.
type Mailbox struct {
	mu    sync.Mutex
	cmd   Command
	fresh bool
}

// Put stores cmd as the latest value, discarding any unconsumed one.
func (m *Mailbox) Put(cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmd = cmd
	m.fresh = true
}

// Poll returns the latest command and whether it is new since the
// previous Poll.
func (m *Mailbox) Poll() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fresh := m.fresh
	m.fresh = false
	return m.cmd, fresh
}
