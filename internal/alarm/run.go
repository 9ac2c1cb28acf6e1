package alarm

import (
	"context"
	"time"

	"github.com/pablasso/chime/internal/task"
)

// DefaultInterval is how often the task collection is scanned.
const DefaultInterval = time.Second

// Run scans source every interval and fires due alarms until ctx is
// cancelled. It is the only goroutine touching m and source.
func Run(ctx context.Context, m *Monitor, interval time.Duration, source func() []task.Task) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	scan := func() {
		for _, trig := range m.Tick(source()) {
			m.Fire(ctx, trig)
		}
	}

	scan()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			scan()
		}
	}
}
