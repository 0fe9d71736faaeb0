package server

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/reoring/shapeval"
)

// Registry is a concurrency-safe set of named schemas.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]shapeval.Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: map[string]shapeval.Schema{}}
}

// Register adds or replaces the schema stored under name.
func (r *Registry) Register(name string, s shapeval.Schema) error {
	if name == "" {
		return errors.New("server: schema name is empty")
	}
	if s == nil {
		return errors.New("server: schema " + name + " is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = s
	return nil
}

func (r *Registry) Get(name string) (shapeval.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.schemas))
}
