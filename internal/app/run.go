package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/ipc"
	"github.com/vk/grainbar/internal/render"
	"github.com/vk/grainbar/internal/source"
)

// Run starts the engine, every configured source, the IPC server and the
// renderer, then blocks until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.appCfg.Validate {
		fmt.Fprintln(a.outW, "configuration OK")
		return nil
	}

	renderer := render.New(a.cfg, a.engine, a.outW)
	ipcServer := ipc.New(a.cfg, a.engine, a.appCfg.IPCPort)
	a.engine.Subscribe(renderer)
	a.engine.Subscribe(ipcServer)

	sources := a.registry.Sources(a.cfg)
	a.logger.Info("Starting.", "sources", len(sources), "bars", len(a.cfg.Bars))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(sources)+3)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("%s: %w", name, err)
				cancel()
			}
		}()
	}

	start("engine", a.engine.Run)
	start("renderer", renderer.Run)
	start("ipc", ipcServer.Run)
	for _, src := range sources {
		src := src
		start("source "+src.Name(), func(ctx context.Context) error {
			return a.runSource(ctx, src)
		})
	}

	<-ctx.Done()
	wg.Wait()
	close(errCh)
	for err := range errCh {
		a.logger.Error("Component failed.", "error", err)
		return err
	}
	a.logger.Info("Shut down cleanly.")
	return nil
}

// runSource adapts a source to the engine's update channel.
func (a *App) runSource(ctx context.Context, src source.Source) error {
	return src.Run(ctx, a.engine.Updates())
}
