package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/state"
)

// restartDelay throttles restarts of a crashed i3bar stream.
const restartDelay = time.Second

type i3barHeader struct {
	Version int `json:"version"`
}

type i3barBlock struct {
	Name       string `json:"name"`
	Instance   string `json:"instance"`
	FullText   string `json:"full_text"`
	Color      string `json:"color"`
	Background string `json:"background"`
}

// runStream keeps the command running and parses its i3bar JSON protocol:
// a version header object followed by an unterminated array of block
// arrays. The process is restarted if it exits.
func (c *Command) runStream(ctx context.Context, updates chan<- state.Update) error {
	logger := ctxlog.FromContext(ctx)
	for {
		err := c.streamOnce(ctx, updates)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Stream source exited, restarting.", "command", c.cfg.Name, "error", err)
		failure := state.Update{
			CommandName: c.cfg.Name,
			Err:         fmt.Errorf("command %q: %w", c.cfg.Name, err),
		}
		if sendErr := send(ctx, updates, failure); sendErr != nil {
			return sendErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(restartDelay):
		}
	}
}

func (c *Command) streamOnce(ctx context.Context, updates chan<- state.Update) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", c.cfg.Command)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	parseErr := parseI3Bar(ctx, c.cfg.Name, stdout, updates)
	waitErr := cmd.Wait()
	if parseErr != nil {
		return parseErr
	}
	if waitErr != nil {
		return waitErr
	}
	return io.ErrUnexpectedEOF
}

// parseI3Bar decodes the stream and emits one batch per status line. Each
// batch resets the source's namespace so vanished blocks disappear.
func parseI3Bar(ctx context.Context, name string, r io.Reader, updates chan<- state.Update) error {
	dec := json.NewDecoder(r)

	var header i3barHeader
	if err := dec.Decode(&header); err != nil {
		return fmt.Errorf("i3bar header: %w", err)
	}
	if header.Version != 1 {
		return fmt.Errorf("unsupported i3bar protocol version %d", header.Version)
	}
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("i3bar stream: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("i3bar stream: expected array, got %v", tok)
	}

	for dec.More() {
		var blocks []i3barBlock
		if err := dec.Decode(&blocks); err != nil {
			return fmt.Errorf("i3bar status line: %w", err)
		}
		if err := send(ctx, updates, i3barUpdate(name, blocks)); err != nil {
			return err
		}
	}
	return nil
}

func i3barUpdate(name string, blocks []i3barBlock) state.Update {
	u := state.Update{
		CommandName: name,
		ResetPrefix: name + ":",
	}
	for i, b := range blocks {
		blockName := b.Name
		if blockName == "" {
			blockName = strconv.Itoa(i)
		}
		entry := func(varName, value string) {
			u.Entries = append(u.Entries, state.UpdateEntry{
				Name:     blockName,
				Instance: b.Instance,
				Var:      varName,
				Value:    value,
			})
		}
		entry("full_text", b.FullText)
		if b.Color != "" {
			entry("foreground", b.Color)
		}
		if b.Background != "" {
			entry("background", b.Background)
		}
	}
	return u
}
