// internal/status/status.go
package status

import "fmt"

// Mode is the driver's operating mode.
type Mode uint8

const (
	// ModeNormal consumes pwm commands from the external source.
	ModeNormal Mode = iota
	// ModeTestPattern drives an internal ramp on all channels and
	// ignores external commands.
	ModeTestPattern
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeTestPattern:
		return "test-pattern"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Snapshot is the driver state exposed for external inspection.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Mode        Mode
	CommsErrors uint64
}

func (s Snapshot) String() string {
	return fmt.Sprintf("mode=%s comms_errors=%d", s.Mode, s.CommsErrors)
}
