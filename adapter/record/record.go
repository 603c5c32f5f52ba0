// Package record contains the default [domain.Record] implementation.
//
// A [Definition] declares the name and the ordered field list shared by every
// record of an adapter. Records are read-only once built, and two records of
// the same definition are equal when their identifiers are.
package record

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/structure"
)

// Definition declares the fields of a record type.
type Definition struct {
	name     string
	columns  []string
	comparer domain.Comparer
}

// NewDefinition returns a new [Definition]. The identifier field is always
// declared, and comes first unless columns places it elsewhere.
func NewDefinition(name string, columns ...string) *Definition {
	cols := make([]string, 0, len(columns)+1)
	if !slices.Contains(columns, domain.IDField) {
		cols = append(cols, domain.IDField)
	}
	for _, c := range columns {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return &Definition{
		name:     name,
		columns:  cols,
		comparer: comparer.NewComparer(),
	}
}

// Name returns the record type name.
func (d *Definition) Name() string {
	return d.name
}

// Columns returns a copy of the declared fields, in declaration order.
func (d *Definition) Columns() []string {
	return slices.Clone(d.columns)
}

// Declares reports whether field is declared.
func (d *Definition) Declares(field string) bool {
	return slices.Contains(d.columns, field)
}

// New builds a record from a field map. Declared fields absent from values
// are set to nil.
func (d *Definition) New(values map[string]any) (*Record, error) {
	if id, ok := values[domain.IDField]; !ok || id == nil {
		return nil, domain.ErrMissingIdentifier{Adapter: d.name}
	}
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if !d.Declares(k) {
			return nil, domain.ErrUnknownField{Adapter: d.name, Field: k}
		}
	}
	row := make(domain.Row, len(d.columns))
	for _, c := range d.columns {
		row[c] = values[c]
	}
	return &Record{def: d, values: row}, nil
}

// FromStruct builds a record from a struct or a string-keyed map, reading
// struct fields by their "synth" tag.
func (d *Definition) FromStruct(obj any) (*Record, error) {
	seq, length, err := structure.Seq2(obj)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, length)
	for k, v := range seq {
		values[k] = v
	}
	return d.New(values)
}

// MustNew is like [Definition.New] but panics on error. It is meant for
// static record lists.
func (d *Definition) MustNew(values map[string]any) *Record {
	r, err := d.New(values)
	if err != nil {
		panic(err)
	}
	return r
}

// Record implements [domain.Record].
type Record struct {
	def    *Definition
	values domain.Row
}

// Definition returns the definition r was built from.
func (r *Record) Definition() *Definition {
	return r.def
}

// ID implements [domain.Record].
func (r *Record) ID() any {
	return r.values[domain.IDField]
}

// Field implements [domain.Fielder]. Declared fields are always found.
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Values implements [domain.Record].
func (r *Record) Values() domain.Row {
	return maps.Clone(r.values)
}

// Equal implements [domain.Record].
func (r *Record) Equal(other domain.Record) bool {
	o, ok := other.(*Record)
	if !ok || o == nil || o.def != r.def {
		return false
	}
	id, otherID := r.ID(), o.ID()
	if !r.def.comparer.Comparable(id, otherID) {
		return false
	}
	c, err := r.def.comparer.Compare(id, otherID)
	return err == nil && c == 0
}

// String implements [domain.Record]. Every declared field is listed.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.def.name)
	sb.WriteByte('{')
	for n, c := range r.def.columns {
		if n > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %#v", c, r.values[c])
	}
	sb.WriteByte('}')
	return sb.String()
}
