package config

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessReplaceChain(t *testing.T) {
	p := ProcessingOptions{Replace: []Replacement{
		{Pattern: regexp.MustCompile(`\s+`), With: " "},
		{Pattern: regexp.MustCompile(`^ | $`), With: ""},
	}}
	assert.Equal(t, "a b", p.Process("  a   b "))
}

func TestProcessReplaceFirstMatchStops(t *testing.T) {
	p := ProcessingOptions{
		ReplaceFirstMatch: true,
		Replace: []Replacement{
			{Pattern: regexp.MustCompile("aaa"), With: "X"},
			{Pattern: regexp.MustCompile("X"), With: "never"},
		},
	}
	assert.Equal(t, "X", p.Process("aaa"))

	// First rule misses, second applies.
	assert.Equal(t, "never", p.Process("X"))
}

func TestProcessMaxLength(t *testing.T) {
	p := ProcessingOptions{MaxLength: 10}
	assert.Equal(t, "hello w...", p.Process("hello world"))
	assert.Equal(t, "short", p.Process("short"))
}

func TestProcessMaxLengthCustomEllipsis(t *testing.T) {
	p := ProcessingOptions{MaxLength: 5, Ellipsis: "…"}
	assert.Equal(t, "hell…", p.Process("hello world"))
}

func TestProcessEnumSeparatorAppliesPerElement(t *testing.T) {
	p := ProcessingOptions{EnumSeparator: ",", MaxLength: 4}
	assert.Equal(t, "one,t...,four", p.Process("one,twotwo,four"))
}

func TestEmpty(t *testing.T) {
	p := ProcessingOptions{}
	assert.True(t, p.Empty())
	assert.Equal(t, "anything", p.Process("anything"))
}
