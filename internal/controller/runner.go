// internal/controller/runner.go
package controller

import (
	"context"
	"time"
)

// Run drives the loop until ctx is cancelled. The timer is re-armed
// after each tick completes (self-rearming single-shot, not a
// fixed-rate clock), so the cadence follows the current period and
// drift from processing time is accepted.
func (c *Controller) Run(ctx context.Context) {
	timer := time.NewTimer(c.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			c.Tick(ctx)
			timer.Reset(c.Interval())
		}
	}
}
