// Package source implements the data sources that feed the state engine:
// the built-in clock, interval-run commands and long-running i3bar JSON
// streams.
package source

import (
	"context"

	"github.com/vk/grainbar/internal/state"
)

// Source produces update batches until its context is cancelled.
type Source interface {
	// Name identifies the source in logs and error messages.
	Name() string

	// Run blocks, sending batches to updates. It returns when ctx is
	// cancelled or the source fails unrecoverably.
	Run(ctx context.Context, updates chan<- state.Update) error
}

func send(ctx context.Context, updates chan<- state.Update, u state.Update) error {
	select {
	case updates <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
