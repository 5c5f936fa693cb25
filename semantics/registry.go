package semantics

import (
	"fmt"
	"sync"
)

// Registry manages LanguageSemantics implementations by name, the same
// register/lookup split the provider registry uses for language providers.
type Registry struct {
	mu    sync.RWMutex
	byName map[string]LanguageSemantics
}

// NewRegistry returns an empty registry; callers register the semantics
// they need (NewHIF, NewVerilog, or a custom one) explicitly.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]LanguageSemantics)}
}

// Register adds s under s.Name(), failing if that name is already taken.
func (r *Registry) Register(s LanguageSemantics) error {
	if s == nil {
		return fmt.Errorf("semantics: cannot register nil LanguageSemantics")
	}
	name := s.Name()
	if name == "" {
		return fmt.Errorf("semantics: LanguageSemantics must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("semantics: %q already registered", name)
	}
	r.byName[name] = s
	return nil
}

// Get looks up a previously registered semantics by name.
func (r *Registry) Get(name string) (LanguageSemantics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("semantics: no semantics registered for %q", name)
	}
	return s, nil
}

// Default returns a Registry pre-populated with the two built-in
// semantics.
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(NewHIF())
	_ = r.Register(NewVerilog())
	return r
}
