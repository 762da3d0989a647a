package source

import (
	"context"
	"time"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/state"
)

// Clock publishes the formatted current time as clock.full_text.
type Clock struct {
	cfg config.Clock

	// now is swappable in tests.
	now func() time.Time
}

// NewClock creates the built-in clock source.
func NewClock(cfg config.Clock) *Clock {
	return &Clock{cfg: cfg, now: time.Now}
}

// Name implements Source.
func (c *Clock) Name() string { return "clock" }

// Run implements Source. The first tick is published immediately so the bar
// never starts without a time.
func (c *Clock) Run(ctx context.Context, updates chan<- state.Update) error {
	if err := send(ctx, updates, c.update()); err != nil {
		return err
	}
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := send(ctx, updates, c.update()); err != nil {
				return err
			}
		}
	}
}

func (c *Clock) update() state.Update {
	return state.Update{
		Entries: []state.UpdateEntry{{
			Name:  "clock",
			Var:   "full_text",
			Value: c.now().Format(c.cfg.Layout),
		}},
	}
}
