// Package testutil provides a harness for integration tests that build and
// run the full application against a temporary configuration.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/grainbar/internal/app"
	"github.com/vk/grainbar/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of a harness startup.
type HarnessResult struct {
	App       *app.App
	BarOutput *SafeBuffer
	LogOutput *SafeBuffer
	Err       error
}

// StartApp writes the given configuration files into a temporary directory
// and constructs the application from them. A startup panic is recovered
// into Err so tests can assert on bad configurations.
func StartApp(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	result := &HarnessResult{
		BarOutput: &SafeBuffer{},
		LogOutput: &SafeBuffer{},
	}
	appConfig := &app.Config{
		ConfigPath: tmpDir,
		LogLevel:   "debug",
		LogFormat:  "text",
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.New(result.BarOutput, result.LogOutput, appConfig, hcl.NewLoader())
	}()
	return result
}

// RunUntil runs the application until the condition holds, then shuts it
// down and returns Run's error. It fails the test if the condition is not
// met within the timeout.
func RunUntil(t *testing.T, result *HarnessResult, condition func() bool, timeout time.Duration) error {
	t.Helper()
	require.NoError(t, result.Err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- result.App.Run(ctx) }()

	deadline := time.After(timeout)
	for !condition() {
		select {
		case err := <-done:
			t.Fatalf("application stopped before the condition held: %v\nlogs:\n%s", err, result.LogOutput.String())
		case <-deadline:
			t.Fatalf("condition not met within %v\nlogs:\n%s", timeout, result.LogOutput.String())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("application did not shut down")
		return nil
	}
}
