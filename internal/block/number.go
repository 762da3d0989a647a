package block

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/placeholder"
)

func numberSegment(b *config.NumberBlock, vars placeholder.Context) (Segment, error) {
	raw, err := resolve(b.Display.Value, vars)
	if err != nil {
		return Segment{}, err
	}
	raw = b.Options.Process(raw)

	seg := Segment{}
	if err := styleSegment(&seg, b.Display, vars); err != nil {
		return Segment{}, err
	}

	if strings.TrimSpace(raw) == "" {
		// No reading yet. Show blank at the configured width so the bar
		// does not jump when the value arrives.
		seg.Text = pad("", b.PaddedWidth)
		return seg, nil
	}

	value, err := parseNumber(raw, b.NumberType)
	if err != nil {
		return Segment{}, err
	}
	min, max, err := bounds(b, vars)
	if err != nil {
		return Segment{}, err
	}

	if b.ProgressBar != nil {
		frac := fraction(value, min, max)
		seg.Text = progressString(b.ProgressBar, frac)
		if color := rampColor(b.ProgressBar.ColorRamp, frac); color != "" {
			seg.Foreground = color
		}
		return seg, nil
	}

	seg.Text = pad(formatNumber(value, b.NumberType), b.PaddedWidth)
	return seg, nil
}

func parseNumber(raw string, t config.NumberType) (float64, error) {
	s := strings.TrimSpace(raw)
	switch t {
	case config.NumberTypeBytes:
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return 0, fmt.Errorf("bytes value %q: %w", raw, err)
		}
		return float64(n), nil
	case config.NumberTypePercent:
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("numeric value %q: %w", raw, err)
	}
	return v, nil
}

func bounds(b *config.NumberBlock, vars placeholder.Context) (float64, float64, error) {
	min, err := bound(b.MinValue, vars, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("min_value: %w", err)
	}
	maxDefault := math.NaN()
	if b.NumberType == config.NumberTypePercent {
		maxDefault = 100
	}
	max, err := bound(b.MaxValue, vars, maxDefault)
	if err != nil {
		return 0, 0, fmt.Errorf("max_value: %w", err)
	}
	if b.ProgressBar != nil && math.IsNaN(max) {
		return 0, 0, fmt.Errorf("progress_bar requires max_value")
	}
	return min, max, nil
}

func bound(d config.Display, vars placeholder.Context, fallback float64) (float64, error) {
	raw, err := resolve(d, vars)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(s, 64)
}

func fraction(value, min, max float64) float64 {
	if max <= min {
		return 0
	}
	frac := (value - min) / (max - min)
	return math.Max(0, math.Min(1, frac))
}

func formatNumber(v float64, t config.NumberType) string {
	switch t {
	case config.NumberTypePercent:
		return strconv.Itoa(int(math.Round(v))) + "%"
	case config.NumberTypeBytes:
		return humanize.IBytes(uint64(v))
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func pad(s string, width int) string {
	if width <= 0 {
		return s
	}
	return fmt.Sprintf("%*s", width, s)
}

func progressString(pb *config.ProgressBar, frac float64) string {
	filled := int(math.Round(frac * float64(pb.Width)))
	var sb strings.Builder
	for i := 0; i < pb.Width; i++ {
		switch {
		case i < filled-1:
			sb.WriteString(pb.Fill)
		case i == filled-1:
			sb.WriteString(pb.Indicator)
		default:
			sb.WriteString(pb.Empty)
		}
	}
	return sb.String()
}

func rampColor(ramp []string, frac float64) string {
	if len(ramp) == 0 {
		return ""
	}
	idx := int(frac * float64(len(ramp)))
	if idx >= len(ramp) {
		idx = len(ramp) - 1
	}
	return ramp[idx]
}
