package config

import (
	"regexp"
	"strings"
)

// Replacement is one compiled regex rewrite rule.
type Replacement struct {
	Pattern *regexp.Regexp
	With    string
}

// ProcessingOptions post-process a resolved value before it is stored or
// displayed: regex rewrites, then codepoint-aware truncation. When
// EnumSeparator is set the value is treated as a separator-joined list and
// each element is processed independently.
type ProcessingOptions struct {
	Replace           []Replacement
	ReplaceFirstMatch bool
	EnumSeparator     string
	MaxLength         int // 0 disables truncation
	Ellipsis          string
}

// DefaultEllipsis terminates truncated values unless configured otherwise.
const DefaultEllipsis = "..."

// Process applies the configured transforms to a resolved value.
func (p *ProcessingOptions) Process(value string) string {
	if p.EnumSeparator == "" {
		return p.processSingle(value)
	}
	parts := strings.Split(value, p.EnumSeparator)
	for i, part := range parts {
		parts[i] = p.processSingle(part)
	}
	return strings.Join(parts, p.EnumSeparator)
}

func (p *ProcessingOptions) processSingle(value string) string {
	for _, r := range p.Replace {
		replaced := r.Pattern.ReplaceAllString(value, r.With)
		if p.ReplaceFirstMatch && replaced != value {
			value = replaced
			break
		}
		value = replaced
	}
	if p.MaxLength <= 0 {
		return value
	}
	rs := []rune(value)
	if len(rs) <= p.MaxLength {
		return value
	}
	ellipsis := p.Ellipsis
	if ellipsis == "" {
		ellipsis = DefaultEllipsis
	}
	er := []rune(ellipsis)
	keep := p.MaxLength - len(er)
	if keep < 0 {
		keep = 0
	}
	out := append(rs[:keep:keep], er...)
	if len(out) > p.MaxLength {
		out = out[:p.MaxLength]
	}
	return string(out)
}

// Empty reports whether the options would leave any value untouched.
func (p *ProcessingOptions) Empty() bool {
	return len(p.Replace) == 0 && p.MaxLength <= 0 && p.EnumSeparator == ""
}
