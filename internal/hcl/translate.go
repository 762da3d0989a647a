package hcl

import (
	"fmt"
	"regexp"
	"time"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/placeholder"
	"github.com/vk/grainbar/internal/schema"
)

const (
	defaultForeground      = "#dddddd"
	defaultBackground      = "#191919"
	defaultActiveFg        = "#ffffff"
	defaultCommandInterval = 10 * time.Second
	defaultClockLayout     = "15:04 Mon Jan 2"
	defaultClockInterval   = time.Second
	defaultEnumSeparator   = ","
	defaultProgressWidth   = 10
	defaultProgressEmpty   = " "
	defaultProgressFill    = "━"
)

// displayDefaults is the fully-merged default display for blocks that do
// not override anything.
type displayDefaults struct {
	value, popupValue     string
	foreground, background string
	activeForeground      string
	activeBackground      string
}

// translate converts the merged raw schema into the validated, parsed model.
// Any placeholder parse error or invalid regex aborts the load.
func translate(root *schema.Root) (*config.Model, error) {
	defs := mergeDefaults(root.DefaultBlocks)

	model := &config.Model{
		Blocks: make(map[string]config.Block, len(root.Blocks)),
		Clock: config.Clock{
			Layout:   defaultClockLayout,
			Interval: defaultClockInterval,
		},
	}

	for _, b := range root.Bars {
		bar, err := translateBar(b)
		if err != nil {
			return nil, err
		}
		model.Bars = append(model.Bars, bar)
	}

	for _, b := range root.Blocks {
		if _, dup := model.Blocks[b.Name]; dup {
			return nil, fmt.Errorf("block %q: declared twice", b.Name)
		}
		block, err := translateBlock(b, defs)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Name, err)
		}
		model.Blocks[b.Name] = block
	}

	seenVars := make(map[string]struct{}, len(root.Vars))
	for _, v := range root.Vars {
		if _, dup := seenVars[v.Name]; dup {
			return nil, fmt.Errorf("var %q: declared twice", v.Name)
		}
		seenVars[v.Name] = struct{}{}
		dv, err := translateVar(v)
		if err != nil {
			return nil, fmt.Errorf("var %q: %w", v.Name, err)
		}
		model.Vars = append(model.Vars, dv)
	}

	seenCommands := make(map[string]struct{}, len(root.Commands))
	for _, c := range root.Commands {
		if _, dup := seenCommands[c.Name]; dup {
			return nil, fmt.Errorf("command %q: declared twice", c.Name)
		}
		seenCommands[c.Name] = struct{}{}
		cmd, err := translateCommand(c)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", c.Name, err)
		}
		model.Commands = append(model.Commands, cmd)
	}

	if root.Clock != nil {
		if root.Clock.Layout != nil {
			model.Clock.Layout = *root.Clock.Layout
		}
		if root.Clock.Interval != nil {
			model.Clock.Interval = time.Duration(*root.Clock.Interval) * time.Second
		}
	}

	for _, bar := range model.Bars {
		for _, region := range [][]string{bar.BlocksLeft, bar.BlocksCenter, bar.BlocksRight} {
			for _, name := range region {
				if _, ok := model.Blocks[name]; !ok {
					return nil, fmt.Errorf("bar references unknown block %q", name)
				}
			}
		}
	}

	return model, nil
}

func mergeDefaults(blocks []*schema.DefaultBlock) displayDefaults {
	defs := displayDefaults{
		foreground:       defaultForeground,
		background:       defaultBackground,
		activeForeground: defaultActiveFg,
		activeBackground: defaultBackground,
	}
	for _, d := range blocks {
		setIf(&defs.value, d.Value)
		setIf(&defs.popupValue, d.PopupValue)
		setIf(&defs.foreground, d.Foreground)
		setIf(&defs.background, d.Background)
		setIf(&defs.activeForeground, d.ActiveForeground)
		setIf(&defs.activeBackground, d.ActiveBackground)
	}
	return defs
}

func translateBar(b *schema.Bar) (*config.Bar, error) {
	background := defaultBackground
	setIf(&background, b.Background)
	bg, err := display(background)
	if err != nil {
		return nil, fmt.Errorf("bar background: %w", err)
	}
	bar := &config.Bar{
		BlocksLeft:   b.BlocksLeft,
		BlocksCenter: b.BlocksCenter,
		BlocksRight:  b.BlocksRight,
		Background:   bg,
	}
	if b.Width != nil {
		bar.Width = *b.Width
	}
	return bar, nil
}

func translateBlock(b *schema.Block, defs displayDefaults) (config.Block, error) {
	common, err := translateCommon(b, defs)
	if err != nil {
		return nil, err
	}

	switch b.Type {
	case "text":
		return &config.TextBlock{BlockCommon: common}, nil

	case "number":
		nb := &config.NumberBlock{BlockCommon: common}
		if err := translateNumber(b, nb); err != nil {
			return nil, err
		}
		return nb, nil

	case "enum":
		eb := &config.EnumBlock{BlockCommon: common}
		if err := translateEnum(b, eb, defs); err != nil {
			return nil, err
		}
		return eb, nil

	default:
		return nil, fmt.Errorf("unknown block type %q", b.Type)
	}
}

func translateCommon(b *schema.Block, defs displayDefaults) (config.BlockCommon, error) {
	opts, err := translateProcessing(b.Replace, b.ReplaceFirstMatch, b.EnumSeparator, b.MaxLength, b.Ellipsis)
	if err != nil {
		return config.BlockCommon{}, err
	}

	disp, err := translateDisplay(b.Value, b.PopupValue, b.Foreground, b.Background,
		defs.value, defs.popupValue, defs.foreground, defs.background)
	if err != nil {
		return config.BlockCommon{}, err
	}

	common := config.BlockCommon{
		Name:    b.Name,
		Display: disp,
		Options: opts,
	}
	if b.OnClickCommand != nil {
		// Validate the interpolation-mode syntax now; execution happens at
		// click time against live variables.
		if _, err := placeholder.Interpolate(*b.OnClickCommand, placeholder.MapContext{}); err != nil {
			return config.BlockCommon{}, fmt.Errorf("on_click_command: %w", err)
		}
		common.OnClickCommand = *b.OnClickCommand
	}
	return common, nil
}

func translateNumber(b *schema.Block, nb *config.NumberBlock) error {
	numberType := "number"
	setIf(&numberType, b.NumberType)
	switch numberType {
	case "number":
		nb.NumberType = config.NumberTypeNumber
	case "percent":
		nb.NumberType = config.NumberTypePercent
	case "bytes":
		nb.NumberType = config.NumberTypeBytes
	default:
		return fmt.Errorf("unknown number_type %q", numberType)
	}

	var err error
	minValue, maxValue := "0", ""
	setIf(&minValue, b.MinValue)
	setIf(&maxValue, b.MaxValue)
	if nb.MinValue, err = display(minValue); err != nil {
		return fmt.Errorf("min_value: %w", err)
	}
	if nb.MaxValue, err = display(maxValue); err != nil {
		return fmt.Errorf("max_value: %w", err)
	}
	if b.PaddedWidth != nil {
		nb.PaddedWidth = *b.PaddedWidth
	} else if nb.NumberType == config.NumberTypePercent {
		nb.PaddedWidth = 4
	}

	if b.ProgressBar != nil {
		pb := &config.ProgressBar{
			Empty:     defaultProgressEmpty,
			Fill:      defaultProgressFill,
			Indicator: defaultProgressFill,
			Width:     defaultProgressWidth,
			ColorRamp: b.ProgressBar.ColorRamp,
		}
		setIf(&pb.Empty, b.ProgressBar.Empty)
		setIf(&pb.Fill, b.ProgressBar.Fill)
		setIf(&pb.Indicator, b.ProgressBar.Indicator)
		if b.ProgressBar.Width != nil {
			pb.Width = *b.ProgressBar.Width
		}
		if pb.Width <= 0 {
			return fmt.Errorf("progress_bar width must be positive, got %d", pb.Width)
		}
		nb.ProgressBar = pb
	}
	return nil
}

func translateEnum(b *schema.Block, eb *config.EnumBlock, defs displayDefaults) error {
	if eb.Options.EnumSeparator == "" {
		eb.Options.EnumSeparator = defaultEnumSeparator
	}

	var err error
	active, variants := "", ""
	setIf(&active, b.Active)
	setIf(&variants, b.Variants)
	if eb.Active, err = display(active); err != nil {
		return fmt.Errorf("active: %w", err)
	}
	if eb.Variants, err = display(variants); err != nil {
		return fmt.Errorf("variants: %w", err)
	}

	// The per-variant display defaults to the bare variant text; the active
	// variant inherits the inactive template when not overridden.
	value := "${value}"
	setIf(&value, b.Value)
	activeValue := value
	setIf(&activeValue, b.ActiveValue)
	activeFg := defs.activeForeground
	setIf(&activeFg, b.ActiveForeground)
	activeBg := defs.activeBackground
	setIf(&activeBg, b.ActiveBackground)

	if eb.Display.Value, err = display(value); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	eb.ActiveDisplay = eb.Display
	if eb.ActiveDisplay.Value, err = display(activeValue); err != nil {
		return fmt.Errorf("active_value: %w", err)
	}
	if eb.ActiveDisplay.Foreground, err = display(activeFg); err != nil {
		return fmt.Errorf("active_foreground: %w", err)
	}
	if eb.ActiveDisplay.Background, err = display(activeBg); err != nil {
		return fmt.Errorf("active_background: %w", err)
	}
	return nil
}

func translateVar(v *schema.Var) (*config.Var, error) {
	opts, err := translateProcessing(v.Replace, v.ReplaceFirstMatch, v.EnumSeparator, v.MaxLength, v.Ellipsis)
	if err != nil {
		return nil, err
	}
	input, err := display(v.Input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return &config.Var{Name: v.Name, Input: input, Options: opts}, nil
}

func translateCommand(c *schema.Command) (*config.Command, error) {
	cmd := &config.Command{
		Name:     c.Name,
		Command:  c.Command,
		Format:   config.FormatPlain,
		Interval: defaultCommandInterval,
	}
	if c.Format != nil {
		switch config.CommandFormat(*c.Format) {
		case config.FormatPlain, config.FormatI3Bar:
			cmd.Format = config.CommandFormat(*c.Format)
		default:
			return nil, fmt.Errorf("unknown format %q", *c.Format)
		}
	}
	if c.Interval != nil {
		if *c.Interval <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %d", *c.Interval)
		}
		cmd.Interval = time.Duration(*c.Interval) * time.Second
	}
	return cmd, nil
}

func translateProcessing(replace [][]string, firstMatch *bool, separator *string, maxLength *int, ellipsis *string) (config.ProcessingOptions, error) {
	var opts config.ProcessingOptions
	for _, pair := range replace {
		if len(pair) != 2 {
			return opts, fmt.Errorf("replace entries must be [pattern, replacement] pairs, got %d elements", len(pair))
		}
		re, err := regexp.Compile(pair[0])
		if err != nil {
			return opts, fmt.Errorf("replace pattern %q: %w", pair[0], err)
		}
		opts.Replace = append(opts.Replace, config.Replacement{Pattern: re, With: pair[1]})
	}
	if firstMatch != nil {
		opts.ReplaceFirstMatch = *firstMatch
	}
	if separator != nil {
		opts.EnumSeparator = *separator
	}
	if maxLength != nil {
		if *maxLength < 0 {
			return opts, fmt.Errorf("max_length must be non-negative, got %d", *maxLength)
		}
		opts.MaxLength = *maxLength
	}
	if ellipsis != nil {
		opts.Ellipsis = *ellipsis
	}
	return opts, nil
}

func translateDisplay(value, popupValue, foreground, background *string, defValue, defPopup, defFg, defBg string) (config.DisplayOptions, error) {
	v, p, f, b := defValue, defPopup, defFg, defBg
	setIf(&v, value)
	setIf(&p, popupValue)
	setIf(&f, foreground)
	setIf(&b, background)

	var disp config.DisplayOptions
	var err error
	if disp.Value, err = display(v); err != nil {
		return disp, fmt.Errorf("value: %w", err)
	}
	if disp.PopupValue, err = display(p); err != nil {
		return disp, fmt.Errorf("popup_value: %w", err)
	}
	if disp.Foreground, err = display(f); err != nil {
		return disp, fmt.Errorf("foreground: %w", err)
	}
	if disp.Background, err = display(b); err != nil {
		return disp, fmt.Errorf("background: %w", err)
	}
	return disp, nil
}

// display parses a template into its Display form.
func display(expr string) (config.Display, error) {
	tokens, err := placeholder.Parse(expr)
	if err != nil {
		return config.Display{}, fmt.Errorf("expression %q: %w", expr, err)
	}
	return config.Display{Expr: expr, Tokens: tokens}, nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
