package scope

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// WithContext sets the initial context values. Keys are validated against
// [domain.Adapter.ContextKeys].
func WithContext(values map[string]any) Option {
	return func(o *options) {
		o.context = values
	}
}

// WithFilters sets the initial filters.
func WithFilters(f domain.Filters) Option {
	return func(o *options) {
		o.filters = f
	}
}

// WithOrder sets the initial orderings. Arguments are parsed like the
// arguments of [Scope.Order].
func WithOrder(args ...any) Option {
	return func(o *options) {
		o.order = args
	}
}

// WithLogger sets the logger used to trace resolutions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithComparer sets the comparer used for sorting and value equality.
func WithComparer(c domain.Comparer) Option {
	return func(o *options) {
		if c != nil {
			o.comparer = c
		}
	}
}

// WithHasher sets the hasher used for set membership.
func WithHasher(h domain.Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// WithMatcher sets the matcher that compiles filters.
func WithMatcher(m domain.Matcher) Option {
	return func(o *options) {
		o.matcher = m
	}
}

// WithQuerier sets the querier that filters, sorts and pages results.
func WithQuerier(q domain.Querier) Option {
	return func(o *options) {
		o.querier = q
	}
}

// WithProjector sets the projector used by [Scope.PluckRows].
func WithProjector(p domain.Projector) Option {
	return func(o *options) {
		o.projector = p
	}
}

// WithDecoder sets the decoder used by cursors.
func WithDecoder(d domain.Decoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithCursorFactory sets the function that builds cursors.
func WithCursorFactory(f domain.CursorFactory) Option {
	return func(o *options) {
		if f != nil {
			o.cursorFactory = f
		}
	}
}

// WithLoadConcurrency sets how many single loads may run at once for adapters
// without a batch path. Loads are sequential by default; values above one
// require the adapter's LoadByID to be safe for concurrent use.
func WithLoadConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithRegistry sets the named scopes available to [Scope.Call]. It takes
// precedence over the registry of an adapter implementing [NamedScoper].
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// Option configures a [Scope] through the functional options pattern.
type Option func(*options)

type options struct {
	context       map[string]any
	filters       domain.Filters
	order         []any
	log           *slog.Logger
	comparer      domain.Comparer
	hasher        domain.Hasher
	matcher       domain.Matcher
	querier       domain.Querier
	projector     domain.Projector
	decoder       domain.Decoder
	cursorFactory domain.CursorFactory
	concurrency   int
	registry      *Registry
}
