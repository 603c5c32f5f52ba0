package scope

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/projector"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// IDs returns the identifiers enumerated by the adapter that pass every
// predicate on [domain.IDField], without loading any record.
func (s *Scope) IDs(ctx context.Context) ([]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.availableIDs(ctx)
}

// All resolves s into records: available identifiers are batch loaded,
// absent records dropped, the remaining ones filtered, stably sorted, then
// offset and limited.
func (s *Scope) All(ctx context.Context) ([]domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	start := time.Now()

	records, err := s.loadAvailable(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := s.fieldFilter()
	if err != nil {
		return nil, err
	}
	res, err := s.eng.querier.Query(recordSeq(records),
		domain.WithQueryFilter(filter),
		domain.WithQuerySort(s.orderings),
		domain.WithQuerySkip(s.offset),
		domain.WithQueryLimit(s.limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s records: %w", s.adapter.Name(), err)
	}

	out := make([]domain.Record, len(res))
	for n, item := range res {
		out[n] = item.(domain.Record)
	}
	s.trace(ctx, "all", start, len(records), len(out))
	return out, nil
}

// Each returns an iterator over the result of [Scope.All]. Every iteration
// resolves s again, so the iterator can be ranged over more than once.
func (s *Scope) Each(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		records, err := s.All(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Cursor returns a [domain.Cursor] over the result of [Scope.All]. s is
// resolved on the first call to Next, and again after Rewind.
func (s *Scope) Cursor(ctx context.Context, opts ...domain.CursorOption) (domain.Cursor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cursor(ctx, func(ctx context.Context) ([]domain.Fielder, error) {
		records, err := s.All(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]domain.Fielder, len(records))
		for n, r := range records {
			items[n] = r
		}
		return items, nil
	}, opts)
}

// RowCursor is like [Scope.Cursor] over the rows of [Scope.PluckRows].
// Undeclared fields fail here, before any resolution.
func (s *Scope) RowCursor(ctx context.Context, fields []string, opts ...domain.CursorOption) (domain.Cursor, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := s.validateColumns(fields); err != nil {
		return nil, err
	}
	fields = slices.Clone(fields)
	return s.cursor(ctx, func(ctx context.Context) ([]domain.Fielder, error) {
		rows, err := s.PluckRows(ctx, fields...)
		if err != nil {
			return nil, err
		}
		items := make([]domain.Fielder, len(rows))
		for n, row := range rows {
			items[n] = row
		}
		return items, nil
	}, opts)
}

func (s *Scope) cursor(ctx context.Context, resolve domain.Resolver, opts []domain.CursorOption) (domain.Cursor, error) {
	opts = append([]domain.CursorOption{domain.WithCursorDecoder(s.eng.decoder)}, opts...)
	return s.eng.cursorFactory(ctx, resolve, opts...)
}

// First returns the first record of [Scope.All], or nil if there is none.
func (s *Scope) First(ctx context.Context) (domain.Record, error) {
	records, err := s.Limit(1).All(ctx)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// FindByID looks id up without enumerating identifiers. It returns nil if id
// fails the identifier predicates, if the adapter does not resolve it or if
// the record fails any other predicate.
func (s *Scope) FindByID(ctx context.Context, id any) (domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	idFilter, err := s.idFilter()
	if err != nil {
		return nil, err
	}
	if idFilter != nil {
		ok, err := idFilter.Match(domain.Row{domain.IDField: id})
		if err != nil || !ok {
			return nil, err
		}
	}

	r, err := s.adapter.LoadByID(ctx, id, s.ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s %v: %w", s.adapter.Name(), id, err)
	}
	if r == nil {
		return nil, nil
	}

	filter, err := s.fieldFilter()
	if err != nil {
		return nil, err
	}
	ok, err := filter.Match(r)
	if err != nil || !ok {
		return nil, err
	}
	return r, nil
}

// Find is like [Scope.FindByID] but fails with [domain.ErrNotFound] when
// the record does not resolve.
func (s *Scope) Find(ctx context.Context, id any) (domain.Record, error) {
	r, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound{Adapter: s.adapter.Name(), ID: id}
	}
	return r, nil
}

// Empty reports whether [Scope.All] would return no record. Records are not
// sorted.
func (s *Scope) Empty(ctx context.Context) (bool, error) {
	n, err := s.matching(ctx, s.offset+1)
	if err != nil {
		return false, err
	}
	return n <= s.offset, nil
}

// Count returns the amount of records [Scope.All] would return. Records are
// not sorted.
func (s *Scope) Count(ctx context.Context) (int, error) {
	n, err := s.matching(ctx, 0)
	if err != nil {
		return 0, err
	}
	n = max(n-s.offset, 0)
	if s.limit > 0 {
		n = min(n, s.limit)
	}
	return int(n), nil
}

// matching counts the loaded records passing the filters, stopping at stop
// when it is positive.
func (s *Scope) matching(ctx context.Context, stop int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	records, err := s.loadAvailable(ctx)
	if err != nil {
		return 0, err
	}
	filter, err := s.fieldFilter()
	if err != nil {
		return 0, err
	}
	res, err := s.eng.querier.Query(recordSeq(records),
		domain.WithQueryFilter(filter),
		domain.WithQueryLimit(stop),
	)
	if err != nil {
		return 0, fmt.Errorf("querying %s records: %w", s.adapter.Name(), err)
	}
	return int64(len(res)), nil
}

// PluckRows resolves s into rows holding only fields. Every field must be
// declared by the adapter, otherwise [domain.ErrInvalidColumn] lists the
// undeclared ones. Rows are extracted for the requested, filtered and
// ordered fields, then filtered, sorted, offset and limited like
// [Scope.All].
func (s *Scope) PluckRows(ctx context.Context, fields ...string) ([]domain.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := s.validateColumns(fields); err != nil {
		return nil, err
	}
	start := time.Now()

	ids, err := s.availableIDs(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.eng.loader.ExtractByIDs(ctx, ids, s.extractedFields(fields), s.ctx)
	if err != nil {
		return nil, err
	}
	filter, err := s.fieldFilter()
	if err != nil {
		return nil, err
	}
	res, err := s.eng.querier.Query(rowSeq(rows),
		domain.WithQueryFilter(filter),
		domain.WithQuerySort(s.orderings),
		domain.WithQuerySkip(s.offset),
		domain.WithQueryLimit(s.limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s rows: %w", s.adapter.Name(), err)
	}
	out, err := s.eng.projector.Project(res, fields)
	if err != nil {
		return nil, err
	}
	s.trace(ctx, "pluck", start, len(ids), len(out))
	return out, nil
}

// Pluck is like [Scope.PluckRows] but returns raw values: the field value
// when a single field is requested, else a []any holding the values in the
// requested order.
func (s *Scope) Pluck(ctx context.Context, fields ...string) ([]any, error) {
	rows, err := s.PluckRows(ctx, fields...)
	if err != nil {
		return nil, err
	}
	if len(fields) == 1 {
		return projector.Column(rows, fields[0]), nil
	}
	tuples := projector.Tuples(rows, fields)
	res := make([]any, len(tuples))
	for n, t := range tuples {
		res[n] = t
	}
	return res, nil
}

// Call runs the named scope registered under name. A returned [*Scope] is
// merged into s and the merge is returned; other values are returned as is.
// Unknown names fail with [domain.ErrUnknownScope].
func (s *Scope) Call(name string, args ...any) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	fn, ok := s.eng.registry.Lookup(name)
	if !ok {
		return nil, domain.ErrUnknownScope{Adapter: s.adapter.Name(), Name: name}
	}
	res, err := fn(s.blank(), args...)
	if err != nil {
		return nil, fmt.Errorf("calling scope %q: %w", name, err)
	}
	other, ok := res.(*Scope)
	if !ok {
		return res, nil
	}
	merged := s.Merge(other)
	if merged.err != nil {
		return nil, merged.err
	}
	return merged, nil
}

// Scoped is like [Scope.Call] for named scopes returning a [*Scope]. Any
// other result is recorded as an error on the returned scope.
func (s *Scope) Scoped(name string, args ...any) *Scope {
	res, err := s.Call(name, args...)
	if err != nil {
		return s.failed(err)
	}
	merged, ok := res.(*Scope)
	if !ok {
		return s.failed(fmt.Errorf("scope %q returned %T", name, res))
	}
	return merged
}

// Equal reports whether s and other resolve to the same records, compared
// by every field value and in order.
func (s *Scope) Equal(ctx context.Context, other *Scope) (bool, error) {
	a, err := s.All(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.All(ctx)
	if err != nil {
		return false, err
	}
	if len(a) != len(b) {
		return false, nil
	}
	for n := range a {
		c, err := s.eng.comparer.Compare(map[string]any(a[n].Values()), map[string]any(b[n].Values()))
		if err != nil {
			return false, err
		}
		if c != 0 {
			return false, nil
		}
	}
	return true, nil
}

func (s *Scope) availableIDs(ctx context.Context) ([]any, error) {
	all, err := s.adapter.AllIDs(ctx, s.ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s ids: %w", s.adapter.Name(), err)
	}
	idFilter, err := s.idFilter()
	if err != nil || idFilter == nil {
		return all, err
	}
	res := make([]any, 0, len(all))
	for _, id := range all {
		ok, err := idFilter.Match(domain.Row{domain.IDField: id})
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, id)
		}
	}
	return res, nil
}

func (s *Scope) loadAvailable(ctx context.Context) ([]domain.Record, error) {
	ids, err := s.availableIDs(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.eng.loader.LoadByIDs(ctx, ids, s.ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(records, func(r domain.Record) bool { return r == nil }), nil
}

// idFilter compiles the identifier predicates. It returns nil if there is
// none.
func (s *Scope) idFilter() (domain.Filter, error) {
	preds, ok := s.filters[domain.IDField]
	if !ok {
		return nil, nil
	}
	return s.eng.matcher.Compile(domain.Filters{domain.IDField: preds})
}

func (s *Scope) fieldFilter() (domain.Filter, error) {
	return s.eng.matcher.Compile(s.filters.Without(domain.IDField))
}

func (s *Scope) validateColumns(fields []string) error {
	declared := s.adapter.Columns()
	var invalid []string
	for _, f := range fields {
		if !slices.Contains(declared, f) && !slices.Contains(invalid, f) {
			invalid = append(invalid, f)
		}
	}
	if len(invalid) > 0 {
		return domain.ErrInvalidColumn{Adapter: s.adapter.Name(), Columns: invalid}
	}
	return nil
}

// extractedFields returns the requested fields followed by the filtered and
// ordered ones, without repetition.
func (s *Scope) extractedFields(fields []string) []string {
	res := make([]string, 0, len(fields)+len(s.filters)+len(s.orderings))
	add := func(f string) {
		if !slices.Contains(res, f) {
			res = append(res, f)
		}
	}
	for _, f := range fields {
		add(f)
	}
	for _, f := range s.filters.Fields() {
		add(f)
	}
	for _, o := range s.orderings {
		add(o.Field)
	}
	return res
}

func (s *Scope) trace(ctx context.Context, op string, start time.Time, loaded, returned int) {
	s.eng.log.DebugContext(ctx, "resolved scope",
		"adapter", s.adapter.Name(),
		"op", op,
		"loaded", loaded,
		"returned", returned,
		"duration", time.Since(start),
	)
}

func recordSeq(records []domain.Record) iter.Seq2[domain.Fielder, error] {
	return func(yield func(domain.Fielder, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func rowSeq(rows []domain.Row) iter.Seq2[domain.Fielder, error] {
	return func(yield func(domain.Fielder, error) bool) {
		for _, r := range rows {
			if r == nil {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}
