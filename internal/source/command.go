package source

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/state"
)

// plainVars maps output line positions to variable suffixes. The second
// line (short text) is accepted but unused.
var plainVars = [4]string{"full_text", "", "foreground", "background"}

// Command runs a configured shell command and feeds its output to the
// engine. Plain-format commands run once per interval; i3bar-format
// commands are kept running and their JSON stream is parsed continuously.
type Command struct {
	cfg *config.Command
}

// NewCommand creates a command source.
func NewCommand(cfg *config.Command) *Command {
	return &Command{cfg: cfg}
}

// Name implements Source.
func (c *Command) Name() string { return c.cfg.Name }

// Run implements Source.
func (c *Command) Run(ctx context.Context, updates chan<- state.Update) error {
	if c.cfg.Format == config.FormatI3Bar {
		return c.runStream(ctx, updates)
	}
	return c.runInterval(ctx, updates)
}

func (c *Command) runInterval(ctx context.Context, updates chan<- state.Update) error {
	if err := send(ctx, updates, c.runOnce(ctx)); err != nil {
		return err
	}
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := send(ctx, updates, c.runOnce(ctx)); err != nil {
				return err
			}
		}
	}
}

// runOnce executes the command and converts its output to a batch. Command
// failure becomes the batch's Err so the engine surfaces it; the next
// successful run clears it.
func (c *Command) runOnce(ctx context.Context) state.Update {
	out, err := exec.CommandContext(ctx, "sh", "-c", c.cfg.Command).Output()
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Command failed.", "command", c.cfg.Name, "error", err)
		return state.Update{
			CommandName: c.cfg.Name,
			Err:         fmt.Errorf("command %q: %w", c.cfg.Name, err),
		}
	}
	return plainUpdate(c.cfg.Name, string(out))
}

// plainUpdate interprets up to four output lines as full_text, short text,
// foreground and background.
func plainUpdate(name, output string) state.Update {
	u := state.Update{
		CommandName: name,
		ResetPrefix: name + ":",
	}
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	for i, varName := range plainVars {
		if varName == "" || i >= len(lines) {
			continue
		}
		if value := lines[i]; value != "" {
			u.Entries = append(u.Entries, state.UpdateEntry{Var: varName, Value: value})
		}
	}
	return u
}
