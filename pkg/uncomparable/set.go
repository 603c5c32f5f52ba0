// Package uncomparable contains a set implementation that accepts elements of
// type [any], including values that are not [comparable] in the Go sense, such
// as slices and field maps.
//
// Elements are bucketed by [domain.Hasher] and told apart by
// [domain.Comparer]. Elements the comparer cannot handle are considered equal
// when their hashes are.
package uncomparable

import (
	"iter"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

const defaultBuckets = 8

// Set represents a set of values of type any.
type Set struct {
	buckets  [][]any
	hasher   domain.Hasher
	comparer domain.Comparer
	length   int
}

// NewSet returns a new, empty [Set] with the given [domain.Hasher] and
// [domain.Comparer].
func NewSet(hasher domain.Hasher, comparer domain.Comparer, values ...any) (*Set, error) {
	s := &Set{
		buckets:  make([][]any, max(defaultBuckets, len(values))),
		hasher:   hasher,
		comparer: comparer,
	}
	for _, v := range values {
		if err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts v into the set. It is a no-op if an equal value is present.
func (s *Set) Add(v any) error {
	h, err := s.hasher.Hash(v)
	if err != nil {
		return err
	}
	idx := h % uint64(len(s.buckets))

	found, err := s.find(s.buckets[idx], v)
	if err != nil || found {
		return err
	}

	s.buckets[idx] = append(s.buckets[idx], v)
	s.length++
	return nil
}

// Has reports whether a value equal to v is in the set.
func (s *Set) Has(v any) (bool, error) {
	h, err := s.hasher.Hash(v)
	if err != nil {
		return false, err
	}
	return s.find(s.buckets[h%uint64(len(s.buckets))], v)
}

func (s *Set) find(bucket []any, v any) (bool, error) {
	for _, item := range bucket {
		if !s.comparer.Comparable(item, v) {
			// same bucket and same hash means same canonical value
			hi, err := s.hasher.Hash(item)
			if err != nil {
				return false, err
			}
			hv, err := s.hasher.Hash(v)
			if err != nil {
				return false, err
			}
			if hi == hv {
				return true, nil
			}
			continue
		}
		c, err := s.comparer.Compare(item, v)
		if err != nil {
			return false, err
		}
		if c == 0 {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the amount of stored values.
func (s *Set) Len() int {
	return s.length
}

// Values returns an unordered [iter.Seq] containing all the stored values.
func (s *Set) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, bucket := range s.buckets {
			for _, v := range bucket {
				if !yield(v) {
					return
				}
			}
		}
	}
}
