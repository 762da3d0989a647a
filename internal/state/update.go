package state

import "strings"

// UpdateEntry is one raw variable change inside a batch. Name and Instance
// scope the variable; Var is the unqualified suffix.
type UpdateEntry struct {
	Name     string
	Instance string
	Var      string
	Value    string
}

// Update is one batch of raw variable changes from a single source. A batch
// is processed atomically: subscribers see at most one notification per
// batch, never one per entry.
type Update struct {
	Entries []UpdateEntry

	// ResetPrefix, when set, removes every existing key with this prefix
	// that the batch does not re-set. Sources use it to replace their whole
	// previous output atomically.
	ResetPrefix string

	// CommandName identifies the producing source. It prefixes every
	// qualified name with "<name>:" and keys per-source error tracking.
	CommandName string

	// Err carries the source's failure for this cycle; a nil Err clears any
	// previously recorded error for the source.
	Err error
}

// qualifiedName joins the entry's scoping parts with dots and applies the
// batch's command prefix.
func (u *Update) qualifiedName(e UpdateEntry) string {
	parts := make([]string, 0, 3)
	if e.Name != "" {
		parts = append(parts, e.Name)
	}
	if e.Instance != "" {
		parts = append(parts, e.Instance)
	}
	parts = append(parts, e.Var)
	name := strings.Join(parts, ".")
	if u.CommandName != "" {
		name = u.CommandName + ":" + name
	}
	return name
}

// VarSnapshot is the externally visible diff of one processed batch: only
// the names whose value actually changed, with their new values. Subscribers
// must treat it as immutable.
type VarSnapshot struct {
	Vars map[string]string
}

// Subscriber receives one VarSnapshot per batch that changed anything.
// A failed delivery is logged and does not affect other subscribers.
type Subscriber interface {
	Notify(snapshot VarSnapshot) error
}
