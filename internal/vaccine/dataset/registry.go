package dataset

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/store"
)

// Registry loads each distinct source path once and keeps the table for the
// life of the process. Tables are never invalidated.
type Registry struct {
	mu     sync.Mutex
	opts   Options
	tables map[string]*store.Table
	load   func(ctx context.Context, path string, opts Options) (*store.Table, error)
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:   opts,
		tables: make(map[string]*store.Table),
		load:   Load,
	}
}

// Table returns the table for path, loading it on first use. Failed loads are
// not cached.
func (r *Registry) Table(ctx context.Context, path string) (*store.Table, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tbl, ok := r.tables[key]; ok {
		return tbl, nil
	}

	tbl, err := r.load(ctx, path, r.opts)
	if err != nil {
		return nil, err
	}
	r.tables[key] = tbl

	return tbl, nil
}
