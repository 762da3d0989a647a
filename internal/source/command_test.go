package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/state"
)

func TestPlainUpdate(t *testing.T) {
	t.Run("all four lines", func(t *testing.T) {
		u := plainUpdate("disk", "72% used\ndisk\n#ff0000\n#000000\n")
		assert.Equal(t, "disk", u.CommandName)
		assert.Equal(t, "disk:", u.ResetPrefix)
		require.Len(t, u.Entries, 3, "the short-text line is dropped")
		assert.Equal(t, state.UpdateEntry{Var: "full_text", Value: "72% used"}, u.Entries[0])
		assert.Equal(t, state.UpdateEntry{Var: "foreground", Value: "#ff0000"}, u.Entries[1])
		assert.Equal(t, state.UpdateEntry{Var: "background", Value: "#000000"}, u.Entries[2])
	})

	t.Run("single line", func(t *testing.T) {
		u := plainUpdate("uptime", "3 days\n")
		require.Len(t, u.Entries, 1)
		assert.Equal(t, "full_text", u.Entries[0].Var)
		assert.Equal(t, "3 days", u.Entries[0].Value)
	})

	t.Run("empty output still resets", func(t *testing.T) {
		u := plainUpdate("quiet", "")
		assert.Empty(t, u.Entries)
		assert.Equal(t, "quiet:", u.ResetPrefix)
	})
}

func TestCommand_RunOnce(t *testing.T) {
	cmd := NewCommand(&config.Command{Name: "greet", Command: "printf 'hello\\n'"})
	u := cmd.runOnce(context.Background())
	require.NoError(t, u.Err)
	require.Len(t, u.Entries, 1)
	assert.Equal(t, "hello", u.Entries[0].Value)
}

func TestCommand_RunOnceFailure(t *testing.T) {
	cmd := NewCommand(&config.Command{Name: "broken", Command: "exit 3"})
	u := cmd.runOnce(context.Background())
	require.Error(t, u.Err)
	assert.Equal(t, "broken", u.CommandName)
	assert.Empty(t, u.Entries)
}
