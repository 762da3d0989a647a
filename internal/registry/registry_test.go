package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/source"
)

func TestRegistry_SourcesInKindOrder(t *testing.T) {
	r := New()
	var built []string
	r.Register("command", func(cfg *config.Model) []source.Source {
		built = append(built, "command")
		return nil
	})
	r.Register("clock", func(cfg *config.Model) []source.Source {
		built = append(built, "clock")
		return []source.Source{source.NewClock(config.Clock{})}
	})

	out := r.Sources(&config.Model{})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"clock", "command"}, built)
	assert.Equal(t, []string{"clock", "command"}, r.Kinds())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	r.Register("clock", func(cfg *config.Model) []source.Source { return nil })
	assert.Panics(t, func() {
		r.Register("clock", func(cfg *config.Model) []source.Source { return nil })
	})
}
