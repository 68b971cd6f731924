// internal/source/runner.go
package source

import (
	"context"
	"log"
	"time"
)

// Subscribe starts the delivery goroutine. Subsequent calls are no-ops,
// so the control loop can subscribe lazily on its first normal tick.
func (p *Poller) Subscribe(ctx context.Context) {
	p.once.Do(func() {
		go p.run(ctx)
	})
}

// run is the ticker loop. One goroutine. No overlap. Read failures are
// logged and the stale mailbox value simply stays in place.
func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cmd, err := p.client.ReadCommand()
			if err != nil {
				log.Printf("source: read failed: %v", err)
				continue
			}
			p.box.Put(cmd)
		}
	}
}
