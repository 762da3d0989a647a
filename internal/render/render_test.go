package render

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/placeholder"
	"github.com/vk/grainbar/internal/state"
)

func textBlock(name, value string) *config.TextBlock {
	return &config.TextBlock{BlockCommon: config.BlockCommon{
		Name: name,
		Display: config.DisplayOptions{
			Value: config.Display{Expr: value, Tokens: placeholder.MustParse(value)},
		},
	}}
}

func TestComposeLine_FixedWidth(t *testing.T) {
	left := region{styled: "cpu", width: 3}
	center := region{styled: "12:00", width: 5}
	right := region{styled: "us", width: 2}

	line := composeLine(left, center, right, 20)
	assert.Equal(t, "cpu    12:00      us", line)
	assert.Len(t, line, 20)
}

func TestComposeLine_NoCenter(t *testing.T) {
	left := region{styled: "cpu", width: 3}
	right := region{styled: "us", width: 2}

	line := composeLine(left, region{}, right, 10)
	assert.Equal(t, "cpu     us", line)
}

func TestComposeLine_FluidWidth(t *testing.T) {
	left := region{styled: "a", width: 1}
	right := region{styled: "b", width: 1}

	assert.Equal(t, "a  b", composeLine(left, region{}, right, 0))
	assert.Equal(t, "a", composeLine(left, region{}, region{}, 0))
}

func TestDraw_WritesBarLine(t *testing.T) {
	cfg := &config.Model{
		Bars:   []*config.Bar{{BlocksLeft: []string{"greet"}}},
		Blocks: map[string]config.Block{"greet": textBlock("greet", "hi ${who}")},
	}
	engine := state.New(nil)
	engine.Apply(context.Background(), state.Update{
		Entries: []state.UpdateEntry{{Var: "who", Value: "world"}},
	})

	var buf bytes.Buffer
	r := New(cfg, engine, &buf)
	require.NoError(t, r.Draw(context.Background()))
	assert.Equal(t, "hi world\n", buf.String())
}

func TestDraw_WideRunes(t *testing.T) {
	cfg := &config.Model{
		Bars:   []*config.Bar{{BlocksLeft: []string{"jp"}, Width: 8}},
		Blocks: map[string]config.Block{"jp": textBlock("jp", "日本")},
	}
	var buf bytes.Buffer
	r := New(cfg, state.New(nil), &buf)
	require.NoError(t, r.Draw(context.Background()))

	// Two double-width runes occupy four cells, leaving four of padding.
	assert.Equal(t, "日本    \n", buf.String())
}

func TestDraw_ErrorReplacesBar(t *testing.T) {
	cfg := &config.Model{
		Bars:   []*config.Bar{{BlocksLeft: []string{"greet"}}},
		Blocks: map[string]config.Block{"greet": textBlock("greet", "hi")},
	}
	engine := state.New(nil)
	engine.Apply(context.Background(), state.Update{
		CommandName: "probe",
		Err:         errors.New("exit status 3"),
	})

	var buf bytes.Buffer
	r := New(cfg, engine, &buf)
	require.NoError(t, r.Draw(context.Background()))
	assert.Contains(t, buf.String(), "ERROR:")
	assert.Contains(t, buf.String(), "exit status 3")
	assert.NotContains(t, buf.String(), "hi")
}

func TestNotify_Coalesces(t *testing.T) {
	r := New(&config.Model{}, state.New(nil), &bytes.Buffer{})
	require.NoError(t, r.Notify(state.VarSnapshot{}))
	require.NoError(t, r.Notify(state.VarSnapshot{}))
	assert.Len(t, r.redraw, 1)
}
