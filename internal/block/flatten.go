package block

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/placeholder"
)

// Flatten resolves the named blocks against the given variables. Blocks
// that fail to resolve are logged and skipped rather than failing the whole
// bar; a broken template in one block must not blank the others.
func Flatten(ctx context.Context, cfg *config.Model, names []string, vars placeholder.Context) []Data {
	logger := ctxlog.FromContext(ctx)

	out := make([]Data, 0, len(names))
	for _, name := range names {
		blk, ok := cfg.Blocks[name]
		if !ok {
			logger.Warn("Skipping unknown block.", "block", name)
			continue
		}
		data, err := flatten(blk, vars)
		if err != nil {
			logger.Warn("Skipping block.", "block", name, "error", err)
			continue
		}
		out = append(out, data)
	}
	return out
}

func flatten(blk config.Block, vars placeholder.Context) (Data, error) {
	common := blk.Common()
	data := Data{Name: common.Name, OnClickCommand: common.OnClickCommand}

	switch b := blk.(type) {
	case *config.TextBlock:
		seg, err := textSegment(common, vars)
		if err != nil {
			return Data{}, err
		}
		data.Segments = []Segment{seg}

	case *config.NumberBlock:
		seg, err := numberSegment(b, vars)
		if err != nil {
			return Data{}, err
		}
		data.Segments = []Segment{seg}

	case *config.EnumBlock:
		segs, err := enumSegments(b, vars)
		if err != nil {
			return Data{}, err
		}
		data.Segments = segs

	default:
		return Data{}, fmt.Errorf("unhandled block kind %T", blk)
	}
	return data, nil
}

func textSegment(common *config.BlockCommon, vars placeholder.Context) (Segment, error) {
	value, err := resolve(common.Display.Value, vars)
	if err != nil {
		return Segment{}, err
	}
	seg := Segment{Text: common.Options.Process(value)}
	if err := styleSegment(&seg, common.Display, vars); err != nil {
		return Segment{}, err
	}
	return seg, nil
}

func enumSegments(b *config.EnumBlock, vars placeholder.Context) ([]Segment, error) {
	activeRaw, err := resolve(b.Active, vars)
	if err != nil {
		return nil, fmt.Errorf("active: %w", err)
	}
	active := -1
	if s := strings.TrimSpace(activeRaw); s != "" {
		if active, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("active index %q: %w", s, err)
		}
	}

	variantsRaw, err := resolve(b.Variants, vars)
	if err != nil {
		return nil, fmt.Errorf("variants: %w", err)
	}

	sep := b.Options.EnumSeparator
	var segs []Segment
	for i, variant := range strings.Split(variantsRaw, sep) {
		variant = b.Options.Process(variant)
		if variant == "" {
			continue
		}
		display := b.Display
		if i == active {
			display = b.ActiveDisplay
		}
		vctx := variantContext{value: variant, vars: vars}
		seg := Segment{Active: i == active}
		if seg.Text, err = resolve(display.Value, vctx); err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		if err := styleSegment(&seg, display, vctx); err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func styleSegment(seg *Segment, display config.DisplayOptions, vars placeholder.Context) error {
	var err error
	if seg.Foreground, err = resolve(display.Foreground, vars); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	if seg.Background, err = resolve(display.Background, vars); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

// variantContext layers the current enum variant over the snapshot so
// templates can reference it as ${value}.
type variantContext struct {
	value string
	vars  placeholder.Context
}

func (c variantContext) Lookup(name string) (string, bool) {
	if name == "value" {
		return c.value, true
	}
	return c.vars.Lookup(name)
}
