// Package block resolves configured blocks against a variable snapshot into
// renderable segments. The renderer only sees the flattened form; all
// template resolution, number parsing and enum splitting happens here.
package block

import (
	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/placeholder"
)

// Segment is one styled run of text within a block.
type Segment struct {
	Text       string
	Foreground string
	Background string
	Active     bool
}

// Data is one fully-resolved block, ready to render.
type Data struct {
	Name           string
	Segments       []Segment
	OnClickCommand string
}

// Text concatenates the segment texts, for call sites that do not style
// per segment.
func (d Data) Text() string {
	var out string
	for _, s := range d.Segments {
		out += s.Text
	}
	return out
}

func resolve(d config.Display, vars placeholder.Context) (string, error) {
	return placeholder.Resolve(d.Tokens, vars)
}
