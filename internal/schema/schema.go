// Package schema declares the HCL-facing structure of configuration files.
// These structs only describe the raw file shape; defaults, validation and
// expression parsing happen during translation into the config model.
package schema

import "github.com/hashicorp/hcl/v2"

// Root is the top-level structure of one configuration file. Any top-level
// block may appear in any file; files in a config directory are merged.
type Root struct {
	Bars          []*Bar          `hcl:"bar,block"`
	DefaultBlocks []*DefaultBlock `hcl:"default_block,block"`
	Blocks        []*Block        `hcl:"block,block"`
	Vars          []*Var          `hcl:"var,block"`
	Commands      []*Command      `hcl:"command,block"`
	Clock         *Clock          `hcl:"clock,block"`
	Remain        hcl.Body        `hcl:",remain"`
}

// Bar places blocks on one rendered bar.
type Bar struct {
	BlocksLeft   []string `hcl:"blocks_left,optional"`
	BlocksCenter []string `hcl:"blocks_center,optional"`
	BlocksRight  []string `hcl:"blocks_right,optional"`
	Background   *string  `hcl:"background,optional"`
	Width        *int     `hcl:"width,optional"`
}

// DefaultBlock supplies display defaults merged into every block.
type DefaultBlock struct {
	Value            *string `hcl:"value,optional"`
	PopupValue       *string `hcl:"popup_value,optional"`
	Foreground       *string `hcl:"foreground,optional"`
	Background       *string `hcl:"background,optional"`
	ActiveForeground *string `hcl:"active_foreground,optional"`
	ActiveBackground *string `hcl:"active_background,optional"`
}

// ProgressBar configures the progress-bar display of a number block.
type ProgressBar struct {
	Empty     *string  `hcl:"empty,optional"`
	Fill      *string  `hcl:"fill,optional"`
	Indicator *string  `hcl:"indicator,optional"`
	Width     *int     `hcl:"width,optional"`
	ColorRamp []string `hcl:"color_ramp,optional"`
}

// Block is one `block "<name>"` declaration. The `type` attribute selects
// the kind; attributes irrelevant to the kind are rejected by translation.
type Block struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`

	Value          *string `hcl:"value,optional"`
	PopupValue     *string `hcl:"popup_value,optional"`
	Foreground     *string `hcl:"foreground,optional"`
	Background     *string `hcl:"background,optional"`
	OnClickCommand *string `hcl:"on_click_command,optional"`

	EnumSeparator     *string    `hcl:"enum_separator,optional"`
	Replace           [][]string `hcl:"replace,optional"`
	ReplaceFirstMatch *bool      `hcl:"replace_first_match,optional"`
	MaxLength         *int       `hcl:"max_length,optional"`
	Ellipsis          *string    `hcl:"ellipsis,optional"`

	NumberType  *string      `hcl:"number_type,optional"`
	MinValue    *string      `hcl:"min_value,optional"`
	MaxValue    *string      `hcl:"max_value,optional"`
	PaddedWidth *int         `hcl:"padded_width,optional"`
	ProgressBar *ProgressBar `hcl:"progress_bar,block"`

	Active           *string `hcl:"active,optional"`
	Variants         *string `hcl:"variants,optional"`
	ActiveValue      *string `hcl:"active_value,optional"`
	ActiveForeground *string `hcl:"active_foreground,optional"`
	ActiveBackground *string `hcl:"active_background,optional"`
}

// Var is one `var "<name>"` derived-variable declaration.
type Var struct {
	Name string `hcl:"name,label"`

	Input             string     `hcl:"input"`
	EnumSeparator     *string    `hcl:"enum_separator,optional"`
	Replace           [][]string `hcl:"replace,optional"`
	ReplaceFirstMatch *bool      `hcl:"replace_first_match,optional"`
	MaxLength         *int       `hcl:"max_length,optional"`
	Ellipsis          *string    `hcl:"ellipsis,optional"`
}

// Command is one `command "<name>"` data-source declaration.
type Command struct {
	Name     string  `hcl:"name,label"`
	Command  string  `hcl:"command"`
	Format   *string `hcl:"format,optional"`
	Interval *int    `hcl:"interval,optional"`
}

// Clock overrides the built-in clock source.
type Clock struct {
	Layout   *string `hcl:"layout,optional"`
	Interval *int    `hcl:"interval,optional"`
}
