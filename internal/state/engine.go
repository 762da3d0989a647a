package state

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/placeholder"
)

// DerivedVar is a declared variable recomputed from a placeholder expression
// on every batch. Declarations keep their configuration order; that order is
// the evaluation order.
type DerivedVar struct {
	Name   string
	Tokens []placeholder.Token

	// Postprocess, when set, runs on the resolved value (regex replacement,
	// enum-aware truncation and similar configured transforms).
	Postprocess func(string) string
}

// Engine is the single writer over the variable namespace. All merging and
// recomputation happens serially on the Run goroutine; concurrent readers go
// through the published snapshot.
type Engine struct {
	updates chan Update
	derived []DerivedVar

	// vars is owned exclusively by the Run goroutine.
	vars map[string]string

	mu         sync.RWMutex
	published  map[string]string
	errMsg     string
	sourceErrs map[string]string
	subs       []Subscriber
}

// New builds an engine around the given derived-variable declarations.
// Expressions are expected to be parse-validated by the configuration layer
// before the engine exists.
func New(derived []DerivedVar) *Engine {
	return &Engine{
		updates:    make(chan Update, 64),
		derived:    derived,
		vars:       make(map[string]string),
		published:  make(map[string]string),
		sourceErrs: make(map[string]string),
	}
}

// Updates returns the channel sources push their batches into.
func (e *Engine) Updates() chan<- Update {
	return e.updates
}

// Subscribe registers a subscriber for change notifications. Subscribers
// added after startup begin receiving diffs with the next processed batch.
func (e *Engine) Subscribe(s Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, s)
}

// Run consumes batches until the context is canceled. Batches from a single
// source arrive in order; batches from different sources interleave freely,
// which is safe because merging is last-write-wins per qualified name.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-e.updates:
			e.Apply(ctx, u)
		}
	}
}

// Apply processes one batch: merge, recompute, error bookkeeping, publish,
// notify. It must only be called from the Run goroutine (or from tests that
// drive the engine synchronously).
func (e *Engine) Apply(ctx context.Context, u Update) {
	logger := ctxlog.FromContext(ctx)

	// before records the pre-batch value of every key the batch touches.
	before := make(map[string]string)
	touch := func(name string) {
		if _, seen := before[name]; !seen {
			before[name] = e.vars[name]
		}
	}

	if u.ResetPrefix != "" {
		kept := make(map[string]struct{}, len(u.Entries))
		for _, entry := range u.Entries {
			kept[u.qualifiedName(entry)] = struct{}{}
		}
		for name := range e.vars {
			if !strings.HasPrefix(name, u.ResetPrefix) {
				continue
			}
			if _, ok := kept[name]; ok {
				continue
			}
			touch(name)
			delete(e.vars, name)
		}
	}

	for _, entry := range u.Entries {
		name := u.qualifiedName(entry)
		touch(name)
		e.vars[name] = entry.Value
	}

	// Derived variables run in declaration order over the namespace as it
	// stands mid-pass: earlier results are visible to later ones, while
	// references to later-declared names see the previous batch's value.
	var errMsg string
	ctxVars := placeholder.MapContext(e.vars)
	for _, dv := range e.derived {
		value, err := placeholder.Resolve(dv.Tokens, ctxVars)
		if err != nil {
			errMsg = flatten(err.Error())
			logger.Warn("Derived variable failed to resolve.", "var", dv.Name, "error", err)
			continue
		}
		if dv.Postprocess != nil {
			value = dv.Postprocess(value)
		}
		touch(dv.Name)
		e.vars[dv.Name] = value
	}

	diff := make(map[string]string)
	for name, old := range before {
		if now := e.vars[name]; now != old {
			diff[name] = now
		}
	}

	published := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		published[k] = v
	}

	e.mu.Lock()
	e.published = published
	e.errMsg = errMsg
	if u.Err != nil {
		e.sourceErrs[u.CommandName] = u.Err.Error()
	} else {
		delete(e.sourceErrs, u.CommandName)
	}
	subs := make([]Subscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	if len(diff) == 0 {
		return
	}
	snapshot := VarSnapshot{Vars: diff}
	for _, s := range subs {
		if err := s.Notify(snapshot); err != nil {
			logger.Warn("Subscriber rejected a snapshot.", "error", err)
		}
	}
}

// Snapshot returns the currently published variable values. The returned map
// is shared and must not be mutated.
func (e *Engine) Snapshot() placeholder.Context {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return placeholder.MapContext(e.published)
}

// Vars returns a copy of the published variable values, for callers that
// need to enumerate rather than look up.
func (e *Engine) Vars() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	vars := make(map[string]string, len(e.published))
	for k, v := range e.published {
		vars[k] = v
	}
	return vars
}

// Resolve renders a parsed template against the published snapshot. It is
// safe to call from any goroutine, typically the renderer's.
func (e *Engine) Resolve(tokens []placeholder.Token) (string, error) {
	return placeholder.Resolve(tokens, e.Snapshot())
}

// BuildErrorMsg summarizes the current error state: a derived-variable
// resolution failure wins over source errors; among source errors the
// smallest source name is picked so the choice is deterministic.
func (e *Engine) BuildErrorMsg() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.errMsg != "" {
		return e.errMsg, true
	}
	if len(e.sourceErrs) == 0 {
		return "", false
	}
	names := make([]string, 0, len(e.sourceErrs))
	for name := range e.sourceErrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return e.sourceErrs[names[0]], true
}

// flatten collapses a multi-line error into a single displayable line.
func flatten(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
