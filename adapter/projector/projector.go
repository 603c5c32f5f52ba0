// Package projector contains the default [domain.Projector] implementation.
package projector

import (
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// Projector implements [domain.Projector].
type Projector struct {
	strict bool
}

// NewProjector returns a new implementation of [domain.Projector]. It is
// strict by default.
func NewProjector(opts ...Option) domain.Projector {
	p := Projector{strict: true}
	for _, opt := range opts {
		opt(&p)
	}
	return &p
}

// Project implements [domain.Projector].
func (p *Projector) Project(items []domain.Fielder, fields []string) ([]domain.Row, error) {
	res := make([]domain.Row, len(items))
	for n, item := range items {
		row := make(domain.Row, len(fields))
		for _, field := range fields {
			v, ok := item.Field(field)
			if !ok && p.strict {
				id, _ := item.Field(domain.IDField)
				return nil, domain.ErrMissingField{ID: id, Field: field}
			}
			row[field] = v
		}
		res[n] = row
	}
	return res, nil
}

// Column returns the value of field in each row.
func Column(rows []domain.Row, field string) []any {
	res := make([]any, len(rows))
	for n, row := range rows {
		res[n] = row[field]
	}
	return res
}

// Tuples returns, for each row, the values of fields in the given order.
func Tuples(rows []domain.Row, fields []string) [][]any {
	res := make([][]any, len(rows))
	for n, row := range rows {
		tuple := make([]any, len(fields))
		for i, field := range fields {
			tuple[i] = row[field]
		}
		res[n] = tuple
	}
	return res
}
