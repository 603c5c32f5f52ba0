package memory

import (
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// WithComparer sets the comparer that orders identifiers.
func WithComparer(c domain.Comparer) Option {
	return func(a *Adapter) {
		a.comparer = c
	}
}

// WithIDGenerator sets the generator used for inserted values lacking an
// identifier.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(a *Adapter) {
		a.idgen = g
	}
}

// WithContextKeys sets the context keys the adapter accepts.
func WithContextKeys(keys ...string) Option {
	return func(a *Adapter) {
		a.Keys = keys
	}
}

// WithVisibility sets a function deciding whether a record exists under a
// context. Hidden records are neither enumerated nor loaded.
func WithVisibility(fn func(domain.Record, domain.Context) bool) Option {
	return func(a *Adapter) {
		a.visible = fn
	}
}

// Option configures adapter behavior through the functional options pattern.
type Option func(*Adapter)
