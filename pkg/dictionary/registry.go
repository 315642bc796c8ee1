package dictionary

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrUnknownSource is returned when a registry operation names a source that is not loaded.
var ErrUnknownSource = errors.New("dictionary: unknown source")

// Source is a loaded index and its runtime state.
type Source struct {
	Name     string
	Path     string
	Index    *Index
	Enabled  bool
	LoadedAt time.Time
}

// Registry holds the loaded indexes by name and lets them be switched on and off at runtime.
// Indexes are immutable, so a Source handed out stays usable after it is replaced or disabled.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*Source
	version uint64
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*Source)}
}

// Add registers idx under name, replacing any source of that name. New sources start enabled.
func (r *Registry) Add(name, path string, idx *Index) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = &Source{
		Name:     name,
		Path:     path,
		Index:    idx,
		Enabled:  true,
		LoadedAt: time.Now(),
	}
	r.version++
}

// Remove drops the named source.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	delete(r.sources, name)
	r.version++
	return nil
}

// Enable includes the named source in queries again.
func (r *Registry) Enable(name string) error { return r.setEnabled(name, true) }

// Disable keeps the named source loaded but leaves it out of queries.
func (r *Registry) Disable(name string) error { return r.setEnabled(name, false) }

func (r *Registry) setEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	if src.Enabled != enabled {
		src.Enabled = enabled
		r.version++
	}
	return nil
}

// Get returns a copy of the named source.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	if !ok {
		return Source{}, false
	}
	return *src, true
}

// Active returns the enabled sources ordered by name.
func (r *Registry) Active() []Source {
	return r.snapshot(true)
}

// List returns every source ordered by name.
func (r *Registry) List() []Source {
	return r.snapshot(false)
}

func (r *Registry) snapshot(enabledOnly bool) []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		if enabledOnly && !src.Enabled {
			continue
		}
		out = append(out, *src)
	}
	slices.SortFunc(out, func(a, b Source) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// Version changes whenever the set of active sources may have changed. Caches keyed on query
// results use it to drop stale entries.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
