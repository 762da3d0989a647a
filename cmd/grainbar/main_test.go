package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	// An HCL syntax error is guaranteed to panic during app.New.
	invalidHCL := `
		block "broken" {
			type = "text"
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	out := &bytes.Buffer{}
	runErr := run(context.Background(), out, out, []string{filePath})

	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to load configuration")
}

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), &bytes.Buffer{}, out, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Validate(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "bar.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(`
bar {
  blocks_left = ["clock"]
}

block "clock" {
  type  = "text"
  value = "${clock.full_text}"
}
`), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-validate", filePath})

	require.NoError(t, err)
	require.Contains(t, out.String(), "configuration OK")
}
