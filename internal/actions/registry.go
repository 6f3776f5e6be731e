package actions

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
)

// Registry is an immutable ordered list of action definitions. Earlier
// definitions take precedence over later ones that match the same command.
type Registry struct {
	definitions []Definition
}

// NewRegistry builds a registry in the given order. Names must be unique and
// every definition needs a pattern and a handler.
func NewRegistry(definitions ...Definition) (*Registry, error) {
	seen := make(map[string]struct{}, len(definitions))

	for i, def := range definitions {
		switch {
		case def.Name == "":
			return nil, fmt.Errorf("definition %d: empty name", i)
		case def.Pattern == nil:
			return nil, fmt.Errorf("definition %q: nil pattern", def.Name)
		case def.Execute == nil:
			return nil, fmt.Errorf("definition %q: nil handler", def.Name)
		}

		if _, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("definition %q: %w", def.Name, ErrDuplicateName)
		}

		seen[def.Name] = struct{}{}
	}

	return &Registry{definitions: slices.Clone(definitions)}, nil
}

var ErrDuplicateName = errors.New("duplicate action name")

// MustNewRegistry is like NewRegistry but panics on an invalid definition list.
func MustNewRegistry(definitions ...Definition) *Registry {
	r, err := NewRegistry(definitions...)
	if err != nil {
		panic(err)
	}

	return r
}

// Find returns the first definition whose pattern matches command.
func (r *Registry) Find(command string) (Definition, bool) {
	for _, def := range r.definitions {
		if def.Matches(command) {
			return def, true
		}
	}

	return Definition{}, false
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	for _, def := range r.definitions {
		if def.Name == name {
			return def, true
		}
	}

	return Definition{}, false
}

// Definitions returns a copy of the ordered definition list.
func (r *Registry) Definitions() []Definition {
	return slices.Clone(r.definitions)
}

func (r *Registry) Len() int {
	return len(r.definitions)
}

// Prepend returns a new registry with definitions placed ahead of the
// existing ones, giving them priority.
func (r *Registry) Prepend(definitions ...Definition) (*Registry, error) {
	return NewRegistry(slices.Concat(definitions, r.definitions)...)
}

// Append returns a new registry with definitions placed after the existing ones.
func (r *Registry) Append(definitions ...Definition) (*Registry, error) {
	return NewRegistry(slices.Concat(r.definitions, definitions)...)
}

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(Builtin())
}

// Default returns the process-wide registry used by dispatchers that were
// not given one explicitly.
func Default() *Registry {
	return defaultRegistry.Load()
}

// SetDefault replaces the process-wide registry. A nil registry restores the
// built-in one.
func SetDefault(r *Registry) {
	if r == nil {
		ResetDefault()

		return
	}

	defaultRegistry.Store(r)
}

// ResetDefault restores the built-in registry as the process-wide default.
func ResetDefault() {
	defaultRegistry.Store(Builtin())
}
