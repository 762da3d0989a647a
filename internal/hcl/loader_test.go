package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/grainbar/internal/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, "bar.hcl", `
bar {
  blocks_left  = ["title"]
  blocks_right = ["cpu", "layout"]
}

default_block {
  foreground = "#c0c0c0"
}

block "title" {
  type       = "text"
  value      = "${focus:window.title|max:40}"
  max_length = 60
}

block "cpu" {
  type        = "number"
  value       = "${sys:cpu.percent}"
  number_type = "percent"
  progress_bar {
    width = 8
  }
}

block "layout" {
  type     = "enum"
  active   = "${kb:layout.active}"
  variants = "${kb:layout.variants}"
}

var "uptime_short" {
  input   = "${sys:uptime}"
  replace = [["\\s+", " "]]
}

command "sys" {
  command  = "sysprobe --brief"
  interval = 3
}

clock {
  layout = "15:04"
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, model.Bars, 1)
	assert.Equal(t, []string{"title"}, model.Bars[0].BlocksLeft)
	assert.Equal(t, []string{"cpu", "layout"}, model.Bars[0].BlocksRight)

	require.Len(t, model.Blocks, 3)
	title, ok := model.Blocks["title"].(*config.TextBlock)
	require.True(t, ok)
	assert.Equal(t, "${focus:window.title|max:40}", title.Display.Value.Expr)
	assert.NotEmpty(t, title.Display.Value.Tokens)
	assert.Equal(t, 60, title.Options.MaxLength)
	assert.Equal(t, "#c0c0c0", title.Display.Foreground.Expr, "default_block foreground applies")

	cpu, ok := model.Blocks["cpu"].(*config.NumberBlock)
	require.True(t, ok)
	assert.Equal(t, config.NumberTypePercent, cpu.NumberType)
	require.NotNil(t, cpu.ProgressBar)
	assert.Equal(t, 8, cpu.ProgressBar.Width)
	assert.Equal(t, "━", cpu.ProgressBar.Fill)

	layout, ok := model.Blocks["layout"].(*config.EnumBlock)
	require.True(t, ok)
	assert.Equal(t, "${kb:layout.active}", layout.Active.Expr)
	assert.Equal(t, "${value}", layout.Display.Value.Expr)
	assert.Equal(t, "${value}", layout.ActiveDisplay.Value.Expr)
	assert.Equal(t, ",", layout.Options.EnumSeparator)

	require.Len(t, model.Vars, 1)
	assert.Equal(t, "uptime_short", model.Vars[0].Name)
	require.Len(t, model.Vars[0].Options.Replace, 1)
	assert.Equal(t, " ", model.Vars[0].Options.Replace[0].With)

	require.Len(t, model.Commands, 1)
	assert.Equal(t, config.FormatPlain, model.Commands[0].Format)
	assert.Equal(t, 3*time.Second, model.Commands[0].Interval)

	assert.Equal(t, "15:04", model.Clock.Layout)
	assert.Equal(t, time.Second, model.Clock.Interval)
}

func TestLoad_DirectoryMerge(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-blocks.hcl"), []byte(`
block "a" {
  type  = "text"
  value = "${x}"
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20-bar.hcl"), []byte(`
bar {
  blocks_left = ["a"]
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Bars, 1)
	require.Len(t, model.Blocks, 1)
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("GRAINBAR_TEST_CMD", "probe --json")
	path := writeConfig(t, "env.hcl", `
command "probe" {
  command = env.GRAINBAR_TEST_CMD
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, model.Commands, 1)
	assert.Equal(t, "probe --json", model.Commands[0].Command)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "minimal.hcl", `
block "plain" {
  type  = "text"
  value = "hello"
}

command "probe" {
  command = "probe"
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	block := model.Blocks["plain"].Common()
	assert.Equal(t, "#dddddd", block.Display.Foreground.Expr)
	assert.Equal(t, "#191919", block.Display.Background.Expr)
	assert.Equal(t, 10*time.Second, model.Commands[0].Interval)
	assert.Equal(t, "15:04 Mon Jan 2", model.Clock.Layout)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errText string
	}{
		{
			name: "unterminated placeholder",
			content: `
block "b" {
  type  = "text"
  value = "${broken"
}
`,
			errText: "unterminated placeholder",
		},
		{
			name: "unknown block type",
			content: `
block "b" {
  type = "gauge"
}
`,
			errText: "unknown block type",
		},
		{
			name: "duplicate block",
			content: `
block "b" {
  type = "text"
}
block "b" {
  type = "text"
}
`,
			errText: "declared twice",
		},
		{
			name: "unknown bar block",
			content: `
bar {
  blocks_left = ["missing"]
}
`,
			errText: "unknown block",
		},
		{
			name: "bad replace regex",
			content: `
var "v" {
  input   = "${x}"
  replace = [["(", ""]]
}
`,
			errText: "replace pattern",
		},
		{
			name: "bad command format",
			content: `
command "c" {
  command = "true"
  format  = "xml"
}
`,
			errText: "unknown format",
		},
		{
			name: "non-positive interval",
			content: `
command "c" {
  command  = "true"
  interval = 0
}
`,
			errText: "interval must be positive",
		},
		{
			name: "bad number_type",
			content: `
block "b" {
  type        = "number"
  number_type = "hex"
}
`,
			errText: "unknown number_type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "bad.hcl", tc.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}
