package commands

import (
	"sort"
	"strings"
	"sync"

	"github.com/aledsdavies/cereal/internal/suggest"
	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// Factory validates the operands of a command line and builds the bound Command.
// args excludes the command keyword itself.
type Factory func(args []string) (execution.Command, error)

// Registry maps command keywords to their factories
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty command registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry creates a registry with every built-in command installed
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

// Register installs a factory, replacing any previous one for the same keyword
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToUpper(name)] = factory
}

// Has reports whether a keyword is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[strings.ToUpper(name)]
	return exists
}

// Create looks up name case-insensitively and builds the command from args
func (r *Registry) Create(name string, args []string) (execution.Command, error) {
	r.mu.RLock()
	factory, exists := r.factories[strings.ToUpper(name)]
	r.mu.RUnlock()

	if !exists {
		err := errors.NewUnknownCommandError(name)
		if hint := suggest.Hint(name, r.Names()); hint != "" {
			err.WithHint(hint)
		}
		return nil, err
	}

	return factory(args)
}

// Names returns every registered keyword, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
