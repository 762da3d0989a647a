// Package registry maps source kinds to the factories that build them from
// configuration. It is populated once at startup; duplicate registration is
// a programming error and panics.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/source"
)

// Factory builds the sources of one kind from the loaded configuration. A
// factory may return no sources if the configuration does not use its kind.
type Factory func(cfg *config.Model) []source.Source

// Registry holds the registered source factories.
type Registry struct {
	factories map[string]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given kind.
func (r *Registry) Register(kind string, f Factory) {
	if _, exists := r.factories[kind]; exists {
		panic(fmt.Sprintf("source factory %q already registered", kind))
	}
	slog.Debug("Registering source factory.", "kind", kind)
	r.factories[kind] = f
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Sources builds every configured source. Factories run in sorted kind
// order so the result is deterministic.
func (r *Registry) Sources(cfg *config.Model) []source.Source {
	var out []source.Source
	for _, kind := range r.Kinds() {
		out = append(out, r.factories[kind](cfg)...)
	}
	return out
}
