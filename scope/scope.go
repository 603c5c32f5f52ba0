// Package scope contains the query engine over [domain.Adapter] data sources.
//
// A [Scope] is an immutable value holding a context, per-field filters and an
// ordering list. Scope-producing methods return new scopes and never touch
// the adapter; terminal methods resolve the scope against the adapter from
// scratch on every call.
//
// Scope-producing methods can be chained. A construction error, such as an
// unknown context key, is kept by the returned scope, reported by [Scope.Err]
// and returned by every terminal method.
package scope

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/cursor"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/hasher"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/loader"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/matcher"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/projector"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/querier"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// Scope is an immutable query over a [domain.Adapter].
type Scope struct {
	adapter   domain.Adapter
	ctx       domain.Context
	filters   domain.Filters
	orderings []domain.Ordering
	limit     int64
	offset    int64
	err       error
	eng       *engine
}

// engine holds the collaborators shared by every scope derived from the same
// call to [New].
type engine struct {
	log           *slog.Logger
	comparer      domain.Comparer
	matcher       domain.Matcher
	querier       domain.Querier
	projector     domain.Projector
	decoder       domain.Decoder
	cursorFactory domain.CursorFactory
	loader        *loader.Loader
	registry      *Registry
}

// New returns a new [Scope] over a. It fails with
// [domain.ErrUnknownContextKey] if the context has keys a does not declare,
// and with [domain.ErrUnparseableOrdering] if an ordering cannot be parsed.
func New(a domain.Adapter, opts ...Option) (*Scope, error) {
	o := options{
		log:           slog.New(slog.DiscardHandler),
		comparer:      comparer.NewComparer(),
		hasher:        hasher.NewHasher(),
		decoder:       decoder.NewDecoder(),
		cursorFactory: cursor.NewCursor,
		concurrency:   loader.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.matcher == nil {
		o.matcher = matcher.NewMatcher(
			matcher.WithComparer(o.comparer),
			matcher.WithHasher(o.hasher),
		)
	}
	if o.querier == nil {
		o.querier = querier.NewQuerier(querier.WithComparer(o.comparer))
	}
	if o.projector == nil {
		o.projector = projector.NewProjector()
	}
	if o.registry == nil {
		if ns, ok := a.(NamedScoper); ok {
			o.registry = ns.NamedScopes()
		}
	}

	eng := &engine{
		log:           o.log,
		comparer:      o.comparer,
		matcher:       o.matcher,
		querier:       o.querier,
		projector:     o.projector,
		decoder:       o.decoder,
		cursorFactory: o.cursorFactory,
		registry:      o.registry,
		loader: loader.New(a,
			loader.WithConcurrency(o.concurrency),
			loader.WithLogger(o.log),
		),
	}

	ctx, err := domain.NewContext(a.Name(), a.ContextKeys(), o.context)
	if err != nil {
		return nil, err
	}
	orderings, err := ParseOrderings(o.order...)
	if err != nil {
		return nil, err
	}
	return &Scope{
		adapter:   a,
		ctx:       ctx,
		filters:   domain.Filters{}.Merge(o.filters),
		orderings: orderings,
		eng:       eng,
	}, nil
}

// Err returns the error recorded while building s, if any.
func (s *Scope) Err() error {
	return s.err
}

// Adapter returns the adapter s is bound to.
func (s *Scope) Adapter() domain.Adapter {
	return s.adapter
}

// Context returns the context of s.
func (s *Scope) Context() domain.Context {
	return s.ctx
}

// Filters returns a copy of the filters of s.
func (s *Scope) Filters() domain.Filters {
	return domain.Filters{}.Merge(s.filters)
}

// Orderings returns a copy of the orderings of s.
func (s *Scope) Orderings() []domain.Ordering {
	return slices.Clone(s.orderings)
}

// LimitValue returns the limit of s. Zero means no limit.
func (s *Scope) LimitValue() int64 {
	return s.limit
}

// OffsetValue returns the offset of s.
func (s *Scope) OffsetValue() int64 {
	return s.offset
}

// blank returns a scope over the same adapter with nothing set.
func (s *Scope) blank() *Scope {
	return &Scope{adapter: s.adapter, filters: domain.Filters{}, eng: s.eng}
}

func (s *Scope) failed(err error) *Scope {
	res := s.clone()
	res.err = err
	return res
}

func (s *Scope) clone() *Scope {
	res := *s
	res.filters = domain.Filters{}.Merge(s.filters)
	res.orderings = slices.Clone(s.orderings)
	return &res
}

// WithContext returns s merged with a scope holding only values as context.
func (s *Scope) WithContext(values map[string]any) *Scope {
	if s.err != nil {
		return s
	}
	ctx, err := domain.NewContext(s.adapter.Name(), s.adapter.ContextKeys(), values)
	if err != nil {
		return s.failed(err)
	}
	other := s.blank()
	other.ctx = ctx
	return s.Merge(other)
}

// Where returns s merged with a scope filtering by filter, a string-keyed
// map or a struct. Each entry becomes one predicate: a [domain.Predicate] is
// kept as is, a func(any) bool becomes [domain.Func], a slice or array
// becomes [domain.OneOf] and any other value becomes [domain.Equals].
func (s *Scope) Where(filter any) *Scope {
	if s.err != nil {
		return s
	}
	f, err := ParseFilter(filter)
	if err != nil {
		return s.failed(err)
	}
	other := s.blank()
	other.filters = f
	return s.Merge(other)
}

// WhereField returns s merged with a scope holding preds for field.
func (s *Scope) WhereField(field string, preds ...domain.Predicate) *Scope {
	if s.err != nil {
		return s
	}
	other := s.blank()
	other.filters = domain.Filters{field: slices.Clone(preds)}
	return s.Merge(other)
}

// Order returns s with orderings appended. Each argument is a field name
// (ascending), a [domain.Ordering], a field and direction pair, or a single
// entry map from field to direction.
func (s *Scope) Order(args ...any) *Scope {
	if s.err != nil {
		return s
	}
	orderings, err := ParseOrderings(args...)
	if err != nil {
		return s.failed(err)
	}
	other := s.blank()
	other.orderings = orderings
	return s.Merge(other)
}

// None returns s filtered so that it resolves to nothing.
func (s *Scope) None() *Scope {
	return s.WhereField(domain.IDField, domain.Never())
}

// Limit returns s with at most n results. Zero removes the limit.
func (s *Scope) Limit(n int64) *Scope {
	if s.err != nil {
		return s
	}
	res := s.clone()
	res.limit = max(n, 0)
	return res
}

// Offset returns s skipping the first n results.
func (s *Scope) Offset(n int64) *Scope {
	if s.err != nil {
		return s
	}
	res := s.clone()
	res.offset = max(n, 0)
	return res
}

// Merge returns a new scope with the context of other written over the
// context of s, the predicates of other appended to the predicates of s per
// field and the orderings of other appended to the orderings of s. Non-zero
// limit and offset of other replace those of s. Both scopes must be bound to
// the same adapter.
func (s *Scope) Merge(other *Scope) *Scope {
	if s.err != nil {
		return s
	}
	if other == nil || other.adapter == nil {
		return s.failed(domain.ErrIncompatibleScope{Want: s.adapter.Name(), Got: "<nil>"})
	}
	if other.err != nil {
		return s.failed(other.err)
	}
	if !sameAdapter(s.adapter, other.adapter) {
		return s.failed(domain.ErrIncompatibleScope{
			Want: s.adapter.Name(),
			Got:  other.adapter.Name(),
		})
	}
	res := s.clone()
	res.ctx = s.ctx.Merge(other.ctx)
	res.filters = s.filters.Merge(other.filters)
	res.orderings = append(res.orderings, other.orderings...)
	if other.limit != 0 {
		res.limit = other.limit
	}
	if other.offset != 0 {
		res.offset = other.offset
	}
	return res
}

// String returns a debug rendering of s.
func (s *Scope) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scope(%s", s.adapter.Name())
	if s.ctx.Len() > 0 {
		fmt.Fprintf(&sb, " context=%v", s.ctx.Keys())
	}
	for _, field := range s.filters.Fields() {
		fmt.Fprintf(&sb, " %s:%d", field, len(s.filters[field]))
	}
	if len(s.orderings) > 0 {
		order := make([]string, len(s.orderings))
		for n, o := range s.orderings {
			order[n] = o.Field + " " + o.Direction.String()
		}
		fmt.Fprintf(&sb, " order=[%s]", strings.Join(order, ", "))
	}
	if s.limit > 0 {
		fmt.Fprintf(&sb, " limit=%d", s.limit)
	}
	if s.offset > 0 {
		fmt.Fprintf(&sb, " offset=%d", s.offset)
	}
	sb.WriteByte(')')
	return sb.String()
}

func sameAdapter(a, b domain.Adapter) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	// a comparable type may still hold an uncomparable value in an
	// interface field
	if reflect.ToReflectValue(reflect.ValueOf(a)).Comparable() {
		return a == b
	}
	return a.Name() == b.Name()
}
