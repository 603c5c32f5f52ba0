package scope

import (
	"fmt"
	"slices"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/structure"
)

// ParseFilter turns a string-keyed map or a struct into [domain.Filters],
// one predicate per entry. A nil filter yields no predicates.
func ParseFilter(filter any) (domain.Filters, error) {
	if filter == nil {
		return domain.Filters{}, nil
	}
	if f, ok := filter.(domain.Filters); ok {
		return domain.Filters{}.Merge(f), nil
	}
	seq, length, err := structure.Seq2(filter)
	if err != nil {
		return nil, fmt.Errorf("parsing filter: %w", err)
	}
	res := make(domain.Filters, length)
	for field, v := range seq {
		preds, err := ParsePredicates(v)
		if err != nil {
			return nil, fmt.Errorf("parsing filter on %q: %w", field, err)
		}
		res[field] = preds
	}
	return res, nil
}

// ParsePredicates turns a filter value into predicates. A
// [domain.Predicate] or a slice of them is kept as is, a func(any) bool
// becomes [domain.Func], any other slice or array becomes [domain.OneOf] and
// everything else becomes [domain.Equals].
func ParsePredicates(v any) ([]domain.Predicate, error) {
	switch t := v.(type) {
	case domain.Predicate:
		return []domain.Predicate{t}, nil
	case []domain.Predicate:
		return slices.Clone(t), nil
	case func(any) bool:
		return []domain.Predicate{domain.Func(t)}, nil
	}
	if !structure.IsList(v) {
		return []domain.Predicate{domain.Equals(v)}, nil
	}
	seq, length, err := structure.Seq(v)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, length)
	for item := range seq {
		values = append(values, item)
	}
	return []domain.Predicate{domain.OneOf(values...)}, nil
}
