// Package synthscope lets a data source that is not a table, such as computed
// values, an external service or an in-memory list, be queried like one.
//
// The basic usage starts with an [Adapter], which lists identifiers and loads
// records, and a [Scope] over it, created by calling [NewScope]. Scopes are
// immutable: filtering, ordering and context injection return new scopes,
// and nothing is loaded until a terminal method such as [Scope.All],
// [Scope.Find] or [Scope.Pluck] is called.
package synthscope

import (
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/base"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/memory"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/scope"
)

// IDField is the reserved field name of the record identifier.
const IDField = domain.IDField

var (
	// ErrCursorClosed is returned when trying to perform operations on a
	// closed [Cursor].
	ErrCursorClosed = domain.ErrCursorClosed
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = domain.ErrScanBeforeNext
	// ErrTargetNil is returned when user provides a nil value as a target
	// to decode data, for example, calling [Cursor.Scan].
	ErrTargetNil = domain.ErrTargetNil
)

// ErrUnknownContextKey is returned when a scope is given context keys its
// adapter does not declare.
type ErrUnknownContextKey = domain.ErrUnknownContextKey

// ErrUnparseableOrdering is returned when an ordering argument cannot be
// parsed.
type ErrUnparseableOrdering = domain.ErrUnparseableOrdering

// ErrIncompatibleScope is returned when merging scopes over different
// adapters.
type ErrIncompatibleScope = domain.ErrIncompatibleScope

// ErrInvalidColumn is returned when plucking undeclared fields.
type ErrInvalidColumn = domain.ErrInvalidColumn

// ErrNotFound is returned by [Scope.Find] when the identifier does not
// resolve.
type ErrNotFound = domain.ErrNotFound

// ErrMissingIdentifier is returned when building a record without its
// identifier.
type ErrMissingIdentifier = domain.ErrMissingIdentifier

// ErrUnknownField is returned when building a record with an undeclared
// field.
type ErrUnknownField = domain.ErrUnknownField

// ErrNotImplemented is returned by [BaseAdapter] methods that were not
// overridden.
type ErrNotImplemented = domain.ErrNotImplemented

// ErrUnknownScope is returned when calling an unregistered named scope.
type ErrUnknownScope = domain.ErrUnknownScope

// ErrDecode is returned by [Decoder.Decode] to easily wrap third party decoding
// errors.
type ErrDecode = domain.ErrDecode

// NewScope creates a new [Scope] over a with the following options:
//
// - [scope.WithContext]: sets the initial context values.
//
// - [scope.WithFilters]: sets the initial filters.
//
// - [scope.WithOrder]: sets the initial orderings.
//
// - [scope.WithLogger]: sets the logger tracing resolutions.
//
// - [scope.WithLoadConcurrency]: sets how many records load at once when
// the adapter has no batch path. Loads are sequential unless the adapter's
// LoadByID is safe for concurrent use and this option raises the limit.
//
// - [scope.WithRegistry]: sets the named scopes available to [Scope.Call].
//
// - [scope.WithComparer], [scope.WithHasher], [scope.WithMatcher],
// [scope.WithQuerier], [scope.WithProjector], [scope.WithDecoder] and
// [scope.WithCursorFactory]: replace the default implementations.
func NewScope(a Adapter, options ...scope.Option) (*Scope, error) {
	return scope.New(a, options...)
}

// NewDefinition declares a record type. The identifier field is always
// declared.
func NewDefinition(name string, columns ...string) *Definition {
	return record.NewDefinition(name, columns...)
}

// NewMemoryAdapter returns an empty in-memory [Adapter] for records of def.
func NewMemoryAdapter(def *Definition, options ...memory.Option) *memory.Adapter {
	return memory.New(def, options...)
}

// NewRegistry returns an empty named scope registry.
func NewRegistry() *Registry {
	return scope.NewRegistry()
}

// Scope is an immutable query over an [Adapter].
type Scope = scope.Scope

// Registry holds named scopes.
type Registry = scope.Registry

// ScopeFunc is a named scope.
type ScopeFunc = scope.Func

// Adapter is the data source behind a scope.
type Adapter = domain.Adapter

// BaseAdapter answers the declarative part of [Adapter] from a [Definition].
// Embed it and override the loading methods.
type BaseAdapter = base.Adapter

// NewBaseAdapter returns a [BaseAdapter] for def accepting contextKeys.
func NewBaseAdapter(def *Definition, contextKeys ...string) BaseAdapter {
	return base.New(def, contextKeys...)
}

// BatchLoader is implemented by adapters with a batch load path.
type BatchLoader = domain.BatchLoader

// Extractor is implemented by adapters that can read selected fields without
// building records.
type Extractor = domain.Extractor

// Record is an immutable value identified by its ID.
type Record = domain.Record

// Definition declares the name and fields of a record type.
type Definition = record.Definition

// Context holds caller-supplied values for an adapter.
type Context = domain.Context

// Row is a field map.
type Row = domain.Row

// Predicate is a single filter condition.
type Predicate = domain.Predicate

// Filters maps field names to predicate lists.
type Filters = domain.Filters

// Ordering is a single sort key.
type Ordering = domain.Ordering

// Cursor iterates over resolved records or projected rows, resolving the
// scope when iteration starts.
type Cursor = domain.Cursor

// Resolver produces the items of a [Cursor].
type Resolver = domain.Resolver

// Decoder converts between different data representations.
type Decoder = domain.Decoder

// Comparer provides ordering and comparison for different data types.
type Comparer = domain.Comparer

// Hasher generates hash values for set membership.
type Hasher = domain.Hasher

// Matcher compiles filters.
type Matcher = domain.Matcher

// Querier filters, sorts and pages results.
type Querier = domain.Querier

// Equals returns a [Predicate] matching values equal to v.
func Equals(v any) Predicate { return domain.Equals(v) }

// OneOf returns a [Predicate] matching values equal to any of vs.
func OneOf(vs ...any) Predicate { return domain.OneOf(vs...) }

// Func returns a [Predicate] matching values for which fn returns true.
func Func(fn func(any) bool) Predicate { return domain.Func(fn) }

// Asc returns an ascending [Ordering] on field.
func Asc(field string) Ordering { return domain.Asc(field) }

// Desc returns a descending [Ordering] on field.
func Desc(field string) Ordering { return domain.Desc(field) }
