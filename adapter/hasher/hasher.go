// Package hasher contains a json based implementation of [domain.Hasher].
//
// Hashes are stable across numeric widths, so int(1), int64(1) and float64(1)
// hash alike, matching how [domain.Comparer] considers them equal. Field maps
// are hashed with sorted keys. Values that cannot be marshaled, like channels
// and functions, hash by pointer.
package hasher

import (
	"bytes"
	"encoding/json"
	"hash/fnv"
	"slices"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// Hasher implements [domain.Hasher].
type Hasher struct{}

// NewHasher returns a new implementation of [domain.Hasher].
func NewHasher() domain.Hasher {
	return &Hasher{}
}

// Hash implements domain.Hasher.
func (h *Hasher) Hash(value any) (uint64, error) {
	canonical := h.canonicalize(value)

	b, err := json.Marshal(canonical)
	if err != nil {
		return 0, err
	}

	hasher := fnv.New64a()

	_, _ = hasher.Write(b) // fnv.sum64a.Write never returns error

	return hasher.Sum64(), nil
}

func (h *Hasher) canonicalize(a any) any {
	if h.straightforward(a) {
		return a
	}

	if f, ok := h.fields(a); ok {
		return f
	}

	v := reflect.ValueOf(a)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Slice, reflect.Array:
		res := make([]any, v.Len())
		for n := range v.Len() {
			res[n] = h.canonicalize(v.Index(n).Interface())
		}
		return res
	case reflect.Ptr, reflect.Chan, reflect.Func:
		if v.IsNil() {
			return nil
		}
		return v.Pointer()
	}
	return a
}

func (h *Hasher) fields(a any) (object, bool) {
	var m map[string]any
	switch t := a.(type) {
	case map[string]any:
		m = t
	case domain.Row:
		m = t
	case domain.Record:
		m = t.Values()
	default:
		return nil, false
	}
	pairs := make(object, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, keyValuePair{key: k, val: h.canonicalize(v)})
	}
	return pairs, true
}

func (h *Hasher) straightforward(a any) bool {
	if a == nil {
		return true
	}
	switch a.(type) {
	case
		// simple values
		bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, []byte:
		return true
	default:
		return false
	}
}

type keyValuePair struct {
	key string
	val any
}

type object []keyValuePair

func (o object) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(append(make([]byte, 0, 256), '{'))

	sorted := slices.Clone(o)
	slices.SortFunc(sorted, func(a, b keyValuePair) int {
		return bytes.Compare([]byte(a.key), []byte(b.key))
	})

	for n, item := range sorted {
		k, err := json.Marshal(item.key)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(k)
		_ = buf.WriteByte(':')
		v, err := json.Marshal(item.val)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(v)

		if n < len(sorted)-1 {
			_ = buf.WriteByte(',')
		}
	}
	_ = buf.WriteByte('}')

	return buf.Bytes(), nil
}
