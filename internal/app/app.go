package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/registry"
	"github.com/vk/grainbar/internal/source"
	"github.com/vk/grainbar/internal/state"
)

// Config holds everything an App instance needs to run.
type Config struct {
	ConfigPath string
	IPCPort    int
	LogFormat  string
	LogLevel   string

	// Validate makes Run stop after the configuration loads successfully.
	Validate bool
}

// App encapsulates the application's dependencies and lifecycle. The bar
// itself is written to outW; logs go to errW.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	appCfg   *Config
	cfg      *config.Model
	registry *registry.Registry
	engine   *state.Engine
}

// New constructs a fully initialized App with its own isolated logger. A
// configuration that fails to load is a fatal startup error, so it panics;
// callers recover to present the failure cleanly.
func New(outW, errW io.Writer, appCfg *Config, loader config.Loader) *App {
	logger := newLogger(appCfg.LogLevel, appCfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfg, err := loader.Load(ctx, appCfg.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.",
		"bars", len(cfg.Bars), "blocks", len(cfg.Blocks),
		"vars", len(cfg.Vars), "commands", len(cfg.Commands))

	reg := registry.New()
	registerCoreSources(reg)
	logger.Debug("Source factories registered.", "kinds", reg.Kinds())

	return &App{
		outW:     outW,
		errW:     errW,
		logger:   logger,
		appCfg:   appCfg,
		cfg:      cfg,
		registry: reg,
		engine:   state.New(derivedVars(cfg)),
	}
}

// Engine returns the application's state engine. This is primarily for
// testing.
func (a *App) Engine() *state.Engine {
	return a.engine
}

func registerCoreSources(reg *registry.Registry) {
	reg.Register("clock", func(cfg *config.Model) []source.Source {
		return []source.Source{source.NewClock(cfg.Clock)}
	})
	reg.Register("command", func(cfg *config.Model) []source.Source {
		sources := make([]source.Source, 0, len(cfg.Commands))
		for _, cmd := range cfg.Commands {
			sources = append(sources, source.NewCommand(cmd))
		}
		return sources
	})
}

// derivedVars converts the configured var declarations into engine form,
// binding each one's processing options as its postprocess step.
func derivedVars(cfg *config.Model) []state.DerivedVar {
	out := make([]state.DerivedVar, 0, len(cfg.Vars))
	for _, v := range cfg.Vars {
		dv := state.DerivedVar{Name: v.Name, Tokens: v.Input.Tokens}
		if !v.Options.Empty() {
			opts := v.Options
			dv.Postprocess = opts.Process
		}
		out = append(out, dv)
	}
	return out
}
