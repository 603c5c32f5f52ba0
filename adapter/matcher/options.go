package matcher

import "github.com/vinicius-lino-figueiredo/synthscope/domain"

// WithComparer sets the comparer implementation for value comparisons during
// matching.
func WithComparer(c domain.Comparer) Option {
	return func(mo *Matcher) {
		mo.comparer = c
	}
}

// WithHasher sets the hasher used to build membership sets for
// [domain.OneOf] predicates.
func WithHasher(h domain.Hasher) Option {
	return func(mo *Matcher) {
		mo.hasher = h
	}
}

// Option configures matcher behavior through the functional options pattern.
type Option func(*Matcher)
