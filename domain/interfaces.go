// Package domain contains domain-specific interfaces, value types and errors
// for synthscope.
//
// This package defines the contract a data source must satisfy to be queried
// through a [Scope]-like engine, as well as the collaborators the engine
// delegates to (comparison, hashing, decoding and iteration).
package domain

import (
	"context"
	"iter"
)

// Fielder is anything whose named fields can be read. Both [Record] and [Row]
// implement it, so filtering and ordering work on full records and on
// extracted field maps alike.
type Fielder interface {
	// Field returns the value under the given name and whether the field
	// is set.
	Field(name string) (any, bool)
}

// Record represents an immutable value loaded by an [Adapter]. It is
// identified by [Record.ID] and exposes a fixed, adapter-declared set of
// fields.
type Record interface {
	Fielder
	// ID returns the record identifier.
	ID() any
	// Values returns a copy of every declared field plus the identifier.
	Values() Row
	// Equal reports whether both records belong to the same adapter and
	// share the same identifier. Other fields are not considered.
	Equal(Record) bool
	// String renders every declared field and its current value.
	String() string
}

// Adapter is the data source behind a scope. Implementations enumerate
// identifiers and load records by identifier. Filtering, ordering and
// projection are never an adapter concern.
type Adapter interface {
	// Name identifies the adapter in errors and logs.
	Name() string
	// Columns returns the ordered set of declared field names.
	Columns() []string
	// ContextKeys returns the context keys this adapter accepts.
	ContextKeys() []string
	// AllIDs returns every identifier for which a load would succeed under
	// the given context. It must be deterministic for a given context.
	AllIDs(ctx context.Context, c Context) ([]any, error)
	// LoadByID returns the record for id, or nil (and no error) when the
	// identifier does not resolve under the given context.
	LoadByID(ctx context.Context, id any, c Context) (Record, error)
}

// BatchLoader may be implemented by an [Adapter] that can load many records
// at once more efficiently than one by one. The result must have the same
// length and order as ids, with nil for identifiers that do not resolve.
type BatchLoader interface {
	LoadByIDs(ctx context.Context, ids []any, c Context) ([]Record, error)
}

// Extractor may be implemented by an [Adapter] that can read a subset of
// fields without building full records. The result must have the same length
// and order as ids, with nil for identifiers that do not resolve. Each
// non-nil row must contain every requested field and may contain more.
//
// An Extractor that cannot serve a given field set returns an error wrapping
// [errors.ErrUnsupported]; the caller then falls back to loading full records.
type Extractor interface {
	ExtractByIDs(ctx context.Context, ids []any, fields []string, c Context) ([]Row, error)
}

// Comparer provides ordering and comparison operations for different data types.
type Comparer interface {
	// Compare returns -1, 0, or 1 based on the comparison of two values.
	Compare(any, any) (int, error)
	// Comparable returns true if two values can be compared.
	Comparable(any, any) bool
}

// Hasher generates hash values for set membership and deduplication.
type Hasher interface {
	// Hash generates a hash value for the given data.
	Hash(any) (uint64, error)
}

// Decoder converts between different data representations.
type Decoder interface {
	// Decode converts from one data format to another.
	Decode(any, any) error
}

// Matcher compiles filter predicates for repeated evaluation.
type Matcher interface {
	// Compile validates filters and prepares them for evaluation.
	Compile(filters Filters) (Filter, error)
}

// Filter is a compiled set of [Filters].
type Filter interface {
	// Match reports whether f satisfies every predicate of every field.
	Match(f Fielder) (bool, error)
}

// Querier filters, sorts and paginates a sequence of items.
type Querier interface {
	// Query consumes data and returns the matching items in order.
	Query(data iter.Seq2[Fielder, error], opts ...QueryOption) ([]Fielder, error)
}

// Projector reduces items to the requested fields.
type Projector interface {
	// Project returns one [Row] per item holding exactly fields.
	Project(items []Fielder, fields []string) ([]Row, error)
}

// Cursor iterates over resolved records or projected rows. Items are
// resolved on the first call to Next, and again after Rewind.
type Cursor interface {
	// Scan decodes the current item into target.
	Scan(ctx context.Context, target any) error
	// Next advances the cursor to the next item, returning true if available.
	Next() bool
	// Record returns the current item if it is a record, or nil.
	Record() Record
	// Row returns the field values of the current item, or nil before the
	// first call to Next.
	Row() Row
	// Rewind moves the cursor before the first item. The next call to Next
	// resolves the items again.
	Rewind() error
	// Err returns any error that occurred during iteration.
	Err() error
	// Close releases cursor resources and should be called when done.
	Close() error
}

// IDGenerator is used to create identifiers for records supplied without one.
type IDGenerator interface {
	// GenerateID returns a new unique identifier.
	GenerateID() (string, error)
}

// Resolver produces the items a [Cursor] iterates over, either [Record] or
// [Row] values.
type Resolver = func(context.Context) ([]Fielder, error)

// CursorFactory represents a [Cursor] constructor that can be reimplemented.
type CursorFactory = func(context.Context, Resolver, ...CursorOption) (Cursor, error)
