package tree

import (
	"slices"
	"sync"

	"datatree/catalog"
	"datatree/internal/match"
)

// Registry indexes targets by name.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]catalog.Target
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]catalog.Target)}
}

// Register adds target under its name.
func (r *Registry) Register(target catalog.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := target.Name()
	if _, dup := r.targets[name]; dup {
		return &ConfigurationError{Type: name, Reason: "already registered"}
	}

	r.targets[name] = target
	r.order = append(r.order, name)

	return nil
}

// Define defines a type and registers it.
func (r *Registry) Define(name string, opts ...TypeOption) (*Type, error) {
	t, err := Define(name, opts...)
	if err != nil {
		return nil, err
	}

	if err := r.Register(t); err != nil {
		return nil, err
	}

	return t, nil
}

// Lookup returns the named target.
func (r *Registry) Lookup(name string) (catalog.Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[name]

	return t, ok
}

// Type returns the named target if it is a composed type.
func (r *Registry) Type(name string) (*Type, error) {
	target, ok := r.Lookup(name)
	if !ok {
		return nil, &ConfigurationError{
			Type:        name,
			Reason:      "unknown type",
			Suggestions: match.Suggest(name, r.Names(), 3),
		}
	}

	t, ok := target.(*Type)
	if !ok {
		return nil, &ConfigurationError{Type: name, Reason: "target is a function, not a type"}
	}

	return t, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}
