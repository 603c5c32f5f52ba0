package scope

import (
	"strings"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// ParseOrderings normalizes ordering arguments. A string is an ascending
// field name. A [domain.Ordering] or a slice of them passes through. A pair
// made of a field name and a direction, given as [2]string, []string or
// []any, sets the direction explicitly, as does a single entry map from field
// name to direction. Directions are [domain.Direction] values or the strings
// "asc", "ascending", "desc" and "descending" in any case.
func ParseOrderings(args ...any) ([]domain.Ordering, error) {
	res := make([]domain.Ordering, 0, len(args))
	for _, arg := range args {
		parsed, ok := parseOrdering(arg)
		if !ok {
			return nil, domain.ErrUnparseableOrdering{Value: arg}
		}
		res = append(res, parsed...)
	}
	return res, nil
}

func parseOrdering(arg any) ([]domain.Ordering, bool) {
	switch t := arg.(type) {
	case string:
		if t == "" {
			return nil, false
		}
		return []domain.Ordering{domain.Asc(t)}, true
	case domain.Ordering:
		if t.Field == "" || !validDirection(t.Direction) {
			return nil, false
		}
		return []domain.Ordering{t}, true
	case []domain.Ordering:
		for _, o := range t {
			if o.Field == "" || !validDirection(o.Direction) {
				return nil, false
			}
		}
		return t, true
	case [2]string:
		return pair(t[0], t[1])
	case []string:
		if len(t) != 2 {
			return nil, false
		}
		return pair(t[0], t[1])
	case []any:
		if len(t) != 2 {
			return nil, false
		}
		return pair(t[0], t[1])
	case map[string]string:
		return singleEntry(t)
	case map[string]domain.Direction:
		return singleEntry(t)
	case map[string]any:
		return singleEntry(t)
	}
	return nil, false
}

// singleEntry parses a map holding exactly one field. Wider maps have no
// defined key order.
func singleEntry[V any](m map[string]V) ([]domain.Ordering, bool) {
	if len(m) != 1 {
		return nil, false
	}
	for k, v := range m {
		return pair(k, v)
	}
	return nil, false
}

func pair(field, dir any) ([]domain.Ordering, bool) {
	name, ok := field.(string)
	if !ok || name == "" {
		return nil, false
	}
	d, ok := ParseDirection(dir)
	if !ok {
		return nil, false
	}
	return []domain.Ordering{{Field: name, Direction: d}}, true
}

// ParseDirection reads a [domain.Direction] or one of its names.
func ParseDirection(v any) (domain.Direction, bool) {
	switch t := v.(type) {
	case domain.Direction:
		return t, validDirection(t)
	case string:
		switch strings.ToLower(t) {
		case "asc", "ascending":
			return domain.Ascending, true
		case "desc", "descending":
			return domain.Descending, true
		}
	}
	return 0, false
}

func validDirection(d domain.Direction) bool {
	return d == domain.Ascending || d == domain.Descending
}
