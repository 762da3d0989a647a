package config

import "context"

// Loader is the interface for a format-specific configuration loader. Load
// reads configuration from a file or a directory of files, merges defaults,
// parses every placeholder expression and compiles every regex; any failure
// is a fatal startup error.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
