// Package storage defines the SeedProvider interface — the contract any
// source of start-up roster data must satisfy.
//
// WHY AN INTERFACE?
// ─────────────────
// The record store lives in memory and does not care where its first
// records come from. By depending only on this interface main.go can
// seed from the compiled-in demo roster, a YAML file, or a SQLite
// database, and tests can pass a plain slice.
//
// Nothing is ever written back through this interface: the roster only
// lives as long as the process.
package storage

import (
	"errors"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// ErrUnknownSource is returned when the configured seed source has no
// provider.
var ErrUnknownSource = errors.New("unknown seed source")

// Seed source names accepted in the config file.
const (
	SourceBuiltin = "builtin"
	SourceYAML    = "yaml"
	SourceSQLite  = "sqlite"
)

// SeedProvider supplies the initial roster.
type SeedProvider interface {
	// Seed returns the records the store starts with, in order.
	// Records may carry an id; those that don't are given one by the store.
	Seed() ([]types.Student, error)
}

// SeedFunc adapts a plain function to SeedProvider.
type SeedFunc func() ([]types.Student, error)

// Seed calls f.
func (f SeedFunc) Seed() ([]types.Student, error) { return f() }
