// Package source defines the data-source contract for table acquisition and
// a registry of backend factories, mirroring the storage-factory pattern: a
// backend registers itself under a kind in init(), and New resolves the kind
// from configuration. Importing the source/all package (even blank) enables
// every built-in backend.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/niarepo/gosales-etl/internal/relation"
)

// ErrRelationNotFound is returned when a named relation does not exist at the
// source. Acquisition failures of this kind are fatal for the run.
var ErrRelationNotFound = errors.New("relation not found")

// Source is a connected relational data source. ListRelations exists for
// diagnostics; ReadRelation materializes one named relation in full. Close
// releases the connection and must be called exactly once, success or not.
type Source interface {
	ListRelations(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, name string) ([]string, error)
	ReadRelation(ctx context.Context, name string) (*relation.Relation, error)
	Close()
}

// Config selects and configures a source backend.
type Config struct {
	// Kind selects the backend: "postgres", "mysql", "mssql", or "sqlite".
	Kind string
	// DSN is the backend-specific connection string.
	DSN string
}

// Factory constructs a connected Source from configuration.
type Factory func(ctx context.Context, cfg Config) (Source, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a factory for the given kind, overriding any previous
// registration (useful for tests).
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New resolves cfg.Kind against the registry and opens the source.
func New(ctx context.Context, cfg Config) (Source, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported source.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
