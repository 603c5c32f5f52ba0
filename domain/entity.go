package domain

import (
	"maps"
	"slices"
)

// IDField is the reserved field name of the record identifier. Filters
// registered under it are checked against identifiers before any record is
// loaded.
const IDField = "id"

// Context is an immutable mapping of adapter-declared keys to caller-supplied
// values, such as service objects an adapter needs to load its records.
type Context struct {
	values map[string]any
}

// NewContext validates values against the allowed keys and returns a new
// Context. Unknown keys are reported all at once by [ErrUnknownContextKey].
func NewContext(adapter string, allowed []string, values map[string]any) (Context, error) {
	var unknown []string
	for k := range values {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return Context{}, ErrUnknownContextKey{Adapter: adapter, Keys: unknown}
	}
	return Context{values: maps.Clone(values)}, nil
}

// Get returns the value under key and whether it was set.
func (c Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of set keys.
func (c Context) Len() int {
	return len(c.values)
}

// Keys returns the set keys in lexical order.
func (c Context) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Values returns a copy of the underlying mapping. It can be decoded into a
// fixed-shape dependency struct with a [Decoder].
func (c Context) Values() map[string]any {
	res := make(map[string]any, len(c.values))
	maps.Copy(res, c.values)
	return res
}

// Merge returns a new Context with the values of other written over the
// values of c.
func (c Context) Merge(other Context) Context {
	res := make(map[string]any, len(c.values)+len(other.values))
	maps.Copy(res, c.values)
	maps.Copy(res, other.values)
	return Context{values: res}
}

// Row is a field map, as returned by [Extractor.ExtractByIDs] and by
// projections.
type Row map[string]any

// Field implements [Fielder].
func (r Row) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Op identifies the kind of a [Predicate].
type Op uint8

// Supported predicate kinds.
const (
	// Eq matches values equal to [Predicate.Value].
	Eq Op = iota
	// In matches values equal to any of [Predicate.Values].
	In
	// Fn matches values for which [Predicate.Fn] returns true.
	Fn
)

// Predicate is a single filter condition on a field value. It is a tagged
// variant: only the member matching Op is meaningful.
type Predicate struct {
	Op     Op
	Value  any
	Values []any
	Fn     func(any) bool
}

// Equals returns a [Predicate] matching values equal to v.
func Equals(v any) Predicate {
	return Predicate{Op: Eq, Value: v}
}

// OneOf returns a [Predicate] matching values equal to any of vs.
func OneOf(vs ...any) Predicate {
	return Predicate{Op: In, Values: slices.Clone(vs)}
}

// Func returns a [Predicate] matching values for which fn returns true.
func Func(fn func(any) bool) Predicate {
	return Predicate{Op: Fn, Fn: fn}
}

// Never returns a [Predicate] that matches nothing.
func Never() Predicate {
	return Func(func(any) bool { return false })
}

// Filters maps field names to predicate lists. Every predicate of every field
// must pass for a value to match.
type Filters map[string][]Predicate

// Merge returns new Filters containing the predicates of f followed by the
// predicates of other, per field. Neither input is modified.
func (f Filters) Merge(other Filters) Filters {
	res := make(Filters, len(f)+len(other))
	for k, v := range f {
		res[k] = slices.Clone(v)
	}
	for k, v := range other {
		res[k] = append(res[k], v...)
	}
	return res
}

// Fields returns the filtered field names in lexical order.
func (f Filters) Fields() []string {
	return slices.Sorted(maps.Keys(f))
}

// Without returns a copy of f without the given field.
func (f Filters) Without(field string) Filters {
	res := make(Filters, len(f))
	for k, v := range f {
		if k != field {
			res[k] = v
		}
	}
	return res
}

// Direction is the sort direction of an [Ordering].
type Direction int8

// Sort directions.
const (
	Ascending  Direction = 1
	Descending Direction = -1
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Ordering is a single sort key. A list of orderings is evaluated left to
// right, ties falling through to the next key.
type Ordering struct {
	Field     string
	Direction Direction
}

// Asc returns an ascending [Ordering] on field.
func Asc(field string) Ordering {
	return Ordering{Field: field, Direction: Ascending}
}

// Desc returns a descending [Ordering] on field.
func Desc(field string) Ordering {
	return Ordering{Field: field, Direction: Descending}
}
