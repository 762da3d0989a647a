package config

import (
	"time"

	"github.com/vk/grainbar/internal/placeholder"
)

// Model is the unified representation of the entire application
// configuration after format-specific loading, default merging and
// expression parsing. Every template field carries its parsed token
// sequence; a Model that loaded successfully resolves without parse errors.
type Model struct {
	Bars     []*Bar
	Blocks   map[string]Block
	Vars     []*Var // declaration order is evaluation order
	Commands []*Command
	Clock    Clock
}

// Display is one template-driven display property: the raw expression and
// its parsed form.
type Display struct {
	Expr   string
	Tokens []placeholder.Token
}

// DisplayOptions groups the templated display properties shared by all
// block kinds.
type DisplayOptions struct {
	Value      Display
	PopupValue Display
	Foreground Display
	Background Display
}

// Block is the closed set of renderable block configurations.
type Block interface {
	BlockName() string
	Common() *BlockCommon
}

// BlockCommon is shared by every block kind.
type BlockCommon struct {
	Name    string
	Display DisplayOptions
	Options ProcessingOptions

	// OnClickCommand is interpolated (simple substitution mode) against the
	// current variables and run when the block is clicked or poked.
	OnClickCommand string
}

// BlockName implements Block.
func (b *BlockCommon) BlockName() string { return b.Name }

// Common implements Block.
func (b *BlockCommon) Common() *BlockCommon { return b }

// TextBlock renders a single templated string.
type TextBlock struct {
	BlockCommon
}

// NumberType selects how a number block's resolved value string is parsed.
type NumberType int

const (
	NumberTypeNumber NumberType = iota
	NumberTypePercent
	NumberTypeBytes
)

// ProgressBar configures the textual progress-bar display of a number block.
type ProgressBar struct {
	Empty     string
	Fill      string
	Indicator string
	Width     int
	ColorRamp []string
}

// NumberBlock parses its resolved value as a number and renders it either as
// padded text or as a progress bar.
type NumberBlock struct {
	BlockCommon
	NumberType  NumberType
	MinValue    Display
	MaxValue    Display
	PaddedWidth int
	ProgressBar *ProgressBar // nil means padded-text display
}

// EnumBlock renders a separator-joined list of variants, formatting the
// active one differently.
type EnumBlock struct {
	BlockCommon
	Active        Display
	Variants      Display
	ActiveDisplay DisplayOptions
}

// Var declares a derived variable: a placeholder expression recomputed by
// the engine on every batch, in declaration order.
type Var struct {
	Name    string
	Input   Display
	Options ProcessingOptions
}

// CommandFormat selects how a command source's output is interpreted.
type CommandFormat string

const (
	// FormatPlain reads up to three lines per run: full_text, foreground,
	// background.
	FormatPlain CommandFormat = "plain"
	// FormatI3Bar reads a long-running i3bar JSON stream.
	FormatI3Bar CommandFormat = "i3bar"
)

// Command declares an external command data source.
type Command struct {
	Name     string
	Command  string
	Format   CommandFormat
	Interval time.Duration
}

// Clock configures the built-in clock source.
type Clock struct {
	Layout   string
	Interval time.Duration
}

// Bar places named blocks on the three regions of one rendered bar.
type Bar struct {
	BlocksLeft   []string
	BlocksCenter []string
	BlocksRight  []string
	Background   Display
	Width        int
}
