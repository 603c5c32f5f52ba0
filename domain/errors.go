package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCursorClosed is returned when trying to perform operations on a
	// closed [Cursor].
	ErrCursorClosed = errors.New("cursor is closed")
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = errors.New("called Scan before calling Next")
	// ErrTargetNil is returned when a nil value is passed as a decoding
	// target.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when a non-pointer value is passed as a
	// decoding target.
	ErrNonPointer = errors.New("target must be a pointer")
)

// ErrUnknownContextKey is returned when a context is built with keys the
// adapter does not declare.
type ErrUnknownContextKey struct {
	Adapter string
	Keys    []string
}

// Error implements [error].
func (e ErrUnknownContextKey) Error() string {
	return fmt.Sprintf("unknown context keys for %s: %s", e.Adapter, strings.Join(e.Keys, ", "))
}

// ErrUnparseableOrdering is returned when an ordering argument is neither a
// field name, a field and direction pair nor an [Ordering].
type ErrUnparseableOrdering struct {
	Value any
}

// Error implements [error].
func (e ErrUnparseableOrdering) Error() string {
	return fmt.Sprintf("cannot parse ordering %#v", e.Value)
}

// ErrIncompatibleScope is returned when merging scopes bound to different
// adapters.
type ErrIncompatibleScope struct {
	Want string
	Got  string
}

// Error implements [error].
func (e ErrIncompatibleScope) Error() string {
	return fmt.Sprintf("cannot merge scope over %s into scope over %s", e.Got, e.Want)
}

// ErrInvalidColumn is returned when plucking fields the adapter does not
// declare.
type ErrInvalidColumn struct {
	Adapter string
	Columns []string
}

// Error implements [error].
func (e ErrInvalidColumn) Error() string {
	return fmt.Sprintf("invalid columns for %s: %s", e.Adapter, strings.Join(e.Columns, ", "))
}

// ErrNotFound is returned by Find when the identifier does not resolve under
// the scope.
type ErrNotFound struct {
	Adapter string
	ID      any
}

// Error implements [error].
func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Adapter, e.ID)
}

// ErrMissingIdentifier is returned when a record is constructed without its
// identifier.
type ErrMissingIdentifier struct {
	Adapter string
}

// Error implements [error].
func (e ErrMissingIdentifier) Error() string {
	return fmt.Sprintf("%s record requires field %q", e.Adapter, IDField)
}

// ErrUnknownField is returned when a record is constructed with a field its
// adapter does not declare.
type ErrUnknownField struct {
	Adapter string
	Field   string
}

// Error implements [error].
func (e ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown field %q for %s", e.Field, e.Adapter)
}

// ErrNotImplemented is returned by the base adapter methods that concrete
// adapters must override.
type ErrNotImplemented struct {
	Adapter string
	Method  string
}

// Error implements [error].
func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("%s does not implement %s", e.Adapter, e.Method)
}

// ErrUnknownScope is returned when calling a named scope the adapter does not
// register.
type ErrUnknownScope struct {
	Adapter string
	Name    string
}

// Error implements [error].
func (e ErrUnknownScope) Error() string {
	return fmt.Sprintf("%s has no named scope %q", e.Adapter, e.Name)
}

// ErrMissingField is returned when an extracted row lacks a requested field.
type ErrMissingField struct {
	ID    any
	Field string
}

// Error implements [error].
func (e ErrMissingField) Error() string {
	return fmt.Sprintf("row %v is missing field %q", e.ID, e.Field)
}

// ErrBatchLength is returned when a batch load or extraction does not return
// one entry per requested identifier.
type ErrBatchLength struct {
	Want int
	Got  int
}

// Error implements [error].
func (e ErrBatchLength) Error() string {
	return fmt.Sprintf("batch returned %d entries for %d ids", e.Got, e.Want)
}

// ErrDecode is returned by [Decoder.Decode] to easily wrap third party
// decoding errors.
type ErrDecode struct {
	Source any
	Target any
}

// Error implements [error].
func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}
