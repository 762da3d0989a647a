// Package state owns the live variable namespace. A single engine goroutine
// consumes Update batches from all sources, merges them into the namespace,
// recomputes declared derived variables and notifies subscribers with a diff
// of what actually changed. Readers never touch the namespace directly; they
// resolve against an atomically published snapshot.
package state
