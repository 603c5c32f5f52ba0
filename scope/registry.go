package scope

import (
	"maps"
	"slices"
	"sync"
)

// Func is a named scope. It receives a blank scope over the adapter and the
// call arguments. If it returns a [*Scope], the result is merged into the
// calling scope; any other value is handed back as is.
type Func func(base *Scope, args ...any) (any, error)

// NamedScoper is implemented by adapters that declare named scopes.
type NamedScoper interface {
	NamedScopes() *Registry
}

// Registry holds named scopes. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds fn under name, replacing any previous entry. It returns r to
// allow chaining.
func (r *Registry) Register(name string, fn Func) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	return r
}

// Lookup returns the named scope registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.funcs))
}
