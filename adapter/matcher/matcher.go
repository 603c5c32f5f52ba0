// Package matcher contains the default implementation of [domain.Matcher].
//
// Filters are compiled once per resolution into a [Query], whose rules are
// evaluated field by field. Every condition must pass for an item to match.
package matcher

import (
	"errors"
	"fmt"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/hasher"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/uncomparable"
)

var (
	// ErrNilFunc is returned when a [domain.Func] predicate has no
	// function.
	ErrNilFunc = errors.New("predicate function is nil")
)

// ErrUnknownOperator is returned when a predicate has an unknown [domain.Op].
type ErrUnknownOperator struct {
	Field string
	Op    domain.Op
}

// Error implements [error].
func (e ErrUnknownOperator) Error() string {
	return fmt.Sprintf("unknown operator %d on field %q", e.Op, e.Field)
}

// Matcher implements [domain.Matcher].
type Matcher struct {
	comparer domain.Comparer
	hasher   domain.Hasher
}

// NewMatcher returns a new implementation of domain.Matcher.
func NewMatcher(options ...Option) domain.Matcher {
	m := &Matcher{
		comparer: comparer.NewComparer(),
		hasher:   hasher.NewHasher(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Compile implements [domain.Matcher].
func (m *Matcher) Compile(filters domain.Filters) (domain.Filter, error) {
	q := &Query{m: m, Rules: make([]FieldRule, 0, len(filters))}
	for _, field := range filters.Fields() {
		preds := filters[field]
		rule := FieldRule{Field: field, Conds: make([]Cond, len(preds))}
		for n, pred := range preds {
			cond, err := m.compileCond(field, pred)
			if err != nil {
				return nil, err
			}
			rule.Conds[n] = cond
		}
		q.Rules = append(q.Rules, rule)
	}
	return q, nil
}

func (m *Matcher) compileCond(field string, pred domain.Predicate) (Cond, error) {
	switch pred.Op {
	case domain.Eq:
		return Cond{Op: domain.Eq, Val: pred.Value}, nil
	case domain.In:
		set, err := uncomparable.NewSet(m.hasher, m.comparer, pred.Values...)
		if err != nil {
			return Cond{}, fmt.Errorf("building set for field %q: %w", field, err)
		}
		return Cond{Op: domain.In, Set: set}, nil
	case domain.Fn:
		if pred.Fn == nil {
			return Cond{}, fmt.Errorf("%w: field %q", ErrNilFunc, field)
		}
		return Cond{Op: domain.Fn, Fn: pred.Fn}, nil
	}
	return Cond{}, ErrUnknownOperator{Field: field, Op: pred.Op}
}

// Match implements [domain.Filter].
func (q *Query) Match(f domain.Fielder) (bool, error) {
	for _, rule := range q.Rules {
		// unset fields are matched as nil
		v, _ := f.Field(rule.Field)
		for _, cond := range rule.Conds {
			ok, err := q.m.matchCond(v, cond)
			if err != nil {
				return false, fmt.Errorf("matching field %q: %w", rule.Field, err)
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

func (m *Matcher) matchCond(v any, cond Cond) (bool, error) {
	switch cond.Op {
	case domain.Eq:
		return m.equal(v, cond.Val)
	case domain.In:
		return cond.Set.Has(v)
	default:
		return cond.Fn(v), nil
	}
}

func (m *Matcher) equal(a, b any) (bool, error) {
	if m.comparer.Comparable(a, b) {
		c, err := m.comparer.Compare(a, b)
		return c == 0, err
	}
	ha, err := m.hasher.Hash(a)
	if err != nil {
		return false, err
	}
	hb, err := m.hasher.Hash(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
