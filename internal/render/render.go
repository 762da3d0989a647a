// Package render draws bars as styled lines. It subscribes to the state
// engine and redraws on every published snapshot, coalescing bursts into a
// single draw.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vk/grainbar/internal/block"
	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/placeholder"
	"github.com/vk/grainbar/internal/state"
)

const errorColor = "#ff3333"

// Renderer writes one line per configured bar to its output.
type Renderer struct {
	cfg    *config.Model
	engine *state.Engine
	styles *lipgloss.Renderer

	mu  sync.Mutex
	out io.Writer

	// redraw is buffered with capacity one; Notify never blocks and
	// back-to-back snapshots collapse into a single draw.
	redraw chan struct{}
}

// New creates a renderer writing to out. Styling capability is detected
// from the writer, so piped output stays plain.
func New(cfg *config.Model, engine *state.Engine, out io.Writer) *Renderer {
	return &Renderer{
		cfg:    cfg,
		engine: engine,
		styles: lipgloss.NewRenderer(out),
		out:    out,
		redraw: make(chan struct{}, 1),
	}
}

// Notify implements state.Subscriber.
func (r *Renderer) Notify(state.VarSnapshot) error {
	select {
	case r.redraw <- struct{}{}:
	default:
	}
	return nil
}

// Run draws until ctx is cancelled.
func (r *Renderer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.redraw:
			if err := r.Draw(ctx); err != nil {
				ctxlog.FromContext(ctx).Warn("Draw failed.", "error", err)
			}
		}
	}
}

// Draw renders the current state once. A pending engine error replaces the
// bar contents so failures are never silently hidden.
func (r *Renderer) Draw(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg, ok := r.engine.BuildErrorMsg(); ok {
		style := r.styles.NewStyle().Foreground(lipgloss.Color(errorColor))
		_, err := fmt.Fprintln(r.out, style.Render("ERROR: "+msg))
		return err
	}

	vars := r.engine.Snapshot()
	for _, bar := range r.cfg.Bars {
		left := r.region(ctx, bar.BlocksLeft, vars)
		center := r.region(ctx, bar.BlocksCenter, vars)
		right := r.region(ctx, bar.BlocksRight, vars)
		if _, err := fmt.Fprintln(r.out, composeLine(left, center, right, bar.Width)); err != nil {
			return err
		}
	}
	return nil
}

// region is one rendered bar area with its styled text and visible width.
type region struct {
	styled string
	width  int
}

func (r *Renderer) region(ctx context.Context, names []string, vars placeholder.Context) region {
	var reg region
	for _, data := range block.Flatten(ctx, r.cfg, names, vars) {
		if reg.width > 0 {
			reg.styled += " "
			reg.width++
		}
		for _, seg := range data.Segments {
			reg.styled += r.segment(seg)
			reg.width += runewidth.StringWidth(seg.Text)
		}
	}
	return reg
}

func (r *Renderer) segment(seg block.Segment) string {
	style := r.styles.NewStyle()
	if seg.Foreground != "" {
		style = style.Foreground(lipgloss.Color(seg.Foreground))
	}
	if seg.Background != "" {
		style = style.Background(lipgloss.Color(seg.Background))
	}
	if seg.Active {
		style = style.Bold(true)
	}
	return style.Render(seg.Text)
}

// composeLine lays the three regions out over the given width: left pinned
// to the start, right to the end, center centered. Zero width degrades to
// simple two-space joins.
func composeLine(left, center, right region, width int) string {
	if width <= 0 {
		parts := make([]string, 0, 3)
		for _, reg := range []region{left, center, right} {
			if reg.width > 0 {
				parts = append(parts, reg.styled)
			}
		}
		return strings.Join(parts, "  ")
	}

	centerStart := (width - center.width) / 2
	gapLeft := centerStart - left.width
	if center.width == 0 {
		gapLeft = width - right.width - left.width
	}
	if gapLeft < 1 && center.width > 0 {
		gapLeft = 1
	}
	if gapLeft < 0 {
		gapLeft = 0
	}
	used := left.width + gapLeft + center.width
	gapRight := width - used - right.width
	if gapRight < 1 && right.width > 0 && center.width > 0 {
		gapRight = 1
	}
	if gapRight < 0 {
		gapRight = 0
	}
	return left.styled + strings.Repeat(" ", gapLeft) + center.styled + strings.Repeat(" ", gapRight) + right.styled
}
