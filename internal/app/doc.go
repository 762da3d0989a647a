// Package app wires the application together: it owns the logger, the
// loaded configuration, the state engine and every long-running component,
// and supervises their lifecycles.
package app
