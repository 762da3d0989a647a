// Package hcl implements config.Loader for HCL configuration files.
package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/fsutil"
	"github.com/vk/grainbar/internal/schema"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file (or every .hcl file under the directory) at path,
// merges all top-level blocks and translates them into the unified model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := l.configFiles(path)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .hcl configuration files at %s", path)
	}
	logger.Debug("Discovered configuration files.", "count", len(paths), "files", paths)

	parser := hclparse.NewParser()
	evalCtx := envEvalContext()
	merged := &schema.Root{}
	for _, p := range paths {
		file, diags := parser.ParseHCLFile(p)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", p, diags)
		}
		root := &schema.Root{}
		if diags := gohcl.DecodeBody(file.Body, evalCtx, root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", p, diags)
		}
		merged.Bars = append(merged.Bars, root.Bars...)
		merged.DefaultBlocks = append(merged.DefaultBlocks, root.DefaultBlocks...)
		merged.Blocks = append(merged.Blocks, root.Blocks...)
		merged.Vars = append(merged.Vars, root.Vars...)
		merged.Commands = append(merged.Commands, root.Commands...)
		if root.Clock != nil {
			merged.Clock = root.Clock
		}
	}

	model, err := translate(merged)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded.",
		"bars", len(model.Bars), "blocks", len(model.Blocks),
		"vars", len(model.Vars), "commands", len(model.Commands))
	return model, nil
}

func (l *Loader) configFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return fsutil.FindFilesByExtension(path, ".hcl")
}

// envEvalContext exposes the process environment to HCL expressions as the
// `env` object, so config files can write e.g. `env.HOME`.
func envEvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
