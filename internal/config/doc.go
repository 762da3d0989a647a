// Package config defines the format-agnostic configuration model for the
// application: bars, blocks, derived variables and command sources, plus the
// Loader interface concrete formats implement.
//
// The `config.Model` is the single source of truth for the state engine and
// the block layer. The HCL implementation of Loader lives in the `hcl`
// package so nothing else in the tree depends on a concrete format.
package config
