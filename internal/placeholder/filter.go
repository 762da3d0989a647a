package placeholder

import "strings"

// Filter is a single text transform in a variable reference's chain. The set
// of implementations is closed: DefaultValue, MaxLength and Align.
type Filter interface {
	Apply(input string) (string, error)
}

// DefaultValue substitutes a replacement when the input is empty or
// whitespace-only.
type DefaultValue struct {
	Replacement string
}

// Apply implements Filter.
func (f DefaultValue) Apply(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return f.Replacement, nil
	}
	return input, nil
}

// MaxLength truncates input longer than N codepoints, ending the result with
// a three-character ellipsis.
type MaxLength struct {
	N int
}

// Apply implements Filter.
func (f MaxLength) Apply(input string) (string, error) {
	rs := []rune(input)
	if len(rs) <= f.N {
		return input, nil
	}
	keep := f.N - 3
	if keep < 0 {
		keep = 0
	}
	return string(rs[:keep]) + "...", nil
}

// AlignDir selects which side of the field receives the input.
type AlignDir int

const (
	AlignLeft AlignDir = iota
	AlignRight
	AlignCenter
)

// Align pads the input with Pad up to Width codepoints. Input already at or
// past the width passes through untouched; Align never truncates.
type Align struct {
	Dir   AlignDir
	Pad   rune
	Width int
}

// Apply implements Filter.
func (f Align) Apply(input string) (string, error) {
	missing := f.Width - len([]rune(input))
	if missing <= 0 {
		return input, nil
	}
	var left, right int
	switch f.Dir {
	case AlignLeft:
		right = missing
	case AlignRight:
		left = missing
	case AlignCenter:
		left = missing / 2
		// The odd pad cell goes to the right side.
		right = missing/2 + missing%2
	}
	pad := string(f.Pad)
	return strings.Repeat(pad, left) + input + strings.Repeat(pad, right), nil
}
