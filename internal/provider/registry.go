package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mhmtszr/concurrent-swiss-map"
)

// Factory builds a Service the first time its provider is selected
type Factory func() (Service, error)

// Registry maps provider identifiers to lazily built services and selects the
// active one from configuration on every call.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	services  *csmap.CsMap[string, Service]
	current   func() string
}

// NewRegistry creates a registry whose active provider is read from current
func NewRegistry(current func() string) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		services:  csmap.Create[string, Service](),
		current:   current,
	}
}

// Register adds a provider factory to the registry
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || factory == nil {
		return fmt.Errorf("provider name and factory are required")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// List returns all registered provider identifiers in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the service for name, constructing it once per registry
func (r *Registry) Get(name string) (Service, error) {
	if svc, ok := r.services.Load(name); ok {
		return svc, nil
	}

	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	svc, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider %s: %w", name, err)
	}

	// A concurrent caller may have won the race; both built equivalent services.
	r.services.SetIfAbsent(name, svc)
	if stored, ok := r.services.Load(name); ok {
		return stored, nil
	}
	return svc, nil
}

// Active returns the service selected by the current configuration
func (r *Registry) Active() (Service, error) {
	if r.current == nil {
		return nil, fmt.Errorf("%w: no provider selector configured", ErrUnknownProvider)
	}
	return r.Get(r.current())
}

// Built reports how many services have been constructed so far
func (r *Registry) Built() int {
	return r.services.Count()
}
