// Package querier contains the default [domain.Querier] implementation.
package querier

import (
	"fmt"
	"iter"
	"slices"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// Querier implements [domain.Querier].
type Querier struct {
	cmpr domain.Comparer
	cap  int
}

// NewQuerier returns a new implementation of [domain.Querier].
func NewQuerier(opts ...Option) domain.Querier {
	q := Querier{
		cmpr: comparer.NewComparer(),
		cap:  64,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return &q
}

// Query implements [domain.Querier]. Items are filtered, stably sorted, then
// skipped and limited. Without sort keys, iteration over data stops as soon
// as the limit is reached.
func (q *Querier) Query(data iter.Seq2[domain.Fielder, error], opts ...domain.QueryOption) ([]domain.Fielder, error) {
	if data == nil {
		return make([]domain.Fielder, 0), nil
	}

	options := domain.QueryOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	res, finished, err := q.filter(data, options)
	if err != nil {
		return nil, err
	}

	if finished || len(options.Sort) == 0 {
		return res, nil
	}

	if err := q.sort(res, options.Sort); err != nil {
		return nil, fmt.Errorf("sorting: %w", err)
	}
	return q.skipAndLimit(res, options.Skip, options.Limit), nil
}

func (q *Querier) filter(data iter.Seq2[domain.Fielder, error], opts domain.QueryOptions) ([]domain.Fielder, bool, error) {
	var skipped int64
	res := make([]domain.Fielder, 0, q.capacity(opts))

	for item, err := range data {
		if err != nil {
			return nil, false, err
		}
		if opts.Filter != nil {
			matches, err := opts.Filter.Match(item)
			if err != nil {
				return nil, false, fmt.Errorf("matching: %w", err)
			}
			if !matches {
				continue
			}
		}
		if len(opts.Sort) == 0 {
			if skipped < opts.Skip {
				skipped++
				continue
			}
			res = append(res, item)
			if opts.Limit > 0 && int64(len(res)) == opts.Limit {
				return res, true, nil
			}
			continue
		}
		res = append(res, item)
	}
	return res, false, nil
}

func (q *Querier) capacity(opts domain.QueryOptions) int {
	if opts.Limit > 0 && len(opts.Sort) == 0 {
		return int(min(opts.Limit, int64(q.cap)))
	}
	return q.cap
}

func (q *Querier) sort(data []domain.Fielder, sort []domain.Ordering) error {
	var err error
	slices.SortStableFunc(data, func(a, b domain.Fielder) int {
		if err != nil {
			return 0
		}
		for _, crit := range sort {
			comp, cErr := q.compareByCriterion(a, b, crit)
			if cErr != nil {
				err = cErr
				return 0
			}
			if comp != 0 {
				return comp
			}
		}
		return 0
	})
	return err
}

func (q *Querier) compareByCriterion(a, b domain.Fielder, crit domain.Ordering) (int, error) {
	// missing fields sort as nil
	critA, _ := a.Field(crit.Field)
	critB, _ := b.Field(crit.Field)

	comp, err := q.cmpr.Compare(critA, critB)
	if err != nil {
		return 0, fmt.Errorf("comparing field %q: %w", crit.Field, err)
	}
	if crit.Direction == domain.Descending {
		return -comp, nil
	}
	return comp, nil
}

func (q *Querier) skipAndLimit(data []domain.Fielder, skip, limit int64) []domain.Fielder {
	length := int64(len(data))

	skip = max(skip, 0)      // skip cannot be negative
	skip = min(skip, length) // cannot skip more than length

	if limit <= 0 {
		return data[skip:]
	}
	return data[skip:min(skip+limit, length)]
}
