package querier

import "github.com/vinicius-lino-figueiredo/synthscope/domain"

// WithComparer sets the comparer implementation for sorting operations.
func WithComparer(c domain.Comparer) Option {
	return func(q *Querier) {
		q.cmpr = c
	}
}

// WithCapacity sets the initial capacity of the result buffer.
func WithCapacity(n int) Option {
	return func(q *Querier) {
		q.cap = n
	}
}

// Option configures querier behavior through the functional options
// pattern.
type Option func(*Querier)
