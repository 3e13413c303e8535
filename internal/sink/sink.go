// Package sink defines the artifact-writer contract and a registry of writer
// factories, the same shape as the source factory. A writer persists one
// final relation to one configured path; partial artifacts must never be left
// behind on failure.
package sink

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/niarepo/gosales-etl/internal/relation"
)

// Writer persists a relation as a single artifact.
type Writer interface {
	Write(ctx context.Context, rel *relation.Relation) error
}

// Config selects and configures a writer.
type Config struct {
	// Kind selects the writer: "sqlite" or "csv".
	Kind string
	// Path is the artifact destination; it comes from configuration, never
	// discovery.
	Path string
	// Table names the relation inside the artifact for container formats
	// (SQLite). Ignored by flat formats.
	Table string
	// Options carries writer-specific settings (e.g. csv "comma").
	Options map[string]any
}

// Factory constructs a Writer from configuration.
type Factory func(cfg Config) (Writer, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a factory for the given kind, overriding any previous
// registration.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New resolves cfg.Kind against the registry.
func New(cfg Config) (Writer, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported output.kind=%s", cfg.Kind)
	}
	return f(cfg)
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
