// Package structure contains type-related operations, such as iterating over a
// value of type any as a field map or as a list.
package structure

import (
	"errors"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// TagName is the struct tag read when iterating struct fields. A tag value of
// "-" skips the field; options "omitempty" and "omitzero" skip nil and zero
// values respectively.
const TagName = "synth"

var (
	// ErrNilObj may be returned by [Seq] or [Seq2] when a nil value is
	// passed as argument.
	ErrNilObj = errors.New("nil object")
)

var fielderReflectType = reflect.TypeOf((*domain.Fielder)(nil)).Elem()

// ErrorNonObject is returned by [Seq2] when a value that is neither a struct
// nor a string-keyed map is passed as argument.
type ErrorNonObject struct {
	Type reflect.Type
}

func (e ErrorNonObject) Error() string {
	return "value is not an object: " + e.Type.String()
}

// ErrorNonList is returned by [Seq] when a value that is neither a slice
// nor an array is passed as argument.
type ErrorNonList struct {
	Type reflect.Type
}

func (e ErrorNonList) Error() string {
	return "value is not a list: " + e.Type.String()
}

// Seq2 returns an iterator over the fields of the passed value. This method
// works for string-keyed maps, [domain.Row] and structs (or pointers to them).
func Seq2(obj any) (iter.Seq2[string, any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	if i, length, err := fastPathStruct(obj); err != nil || i != nil {
		return i, length, err
	}
	return iterReflect(obj)
}

func fastPathStruct(obj any) (iter.Seq2[string, any], int, error) {
	if err := checkPrimitive(obj); err != nil {
		return nil, 0, err
	}
	return checkMaps(obj)
}

func checkPrimitive(obj any) error {
	switch obj.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, *regexp.Regexp, []byte:
		return ErrorNonObject{Type: reflect.TypeOf(obj)}
	default:
		return nil
	}
}

func checkMaps(obj any) (iter.Seq2[string, any], int, error) {
	switch t := obj.(type) {
	case domain.Row:
		return iterMap(t), len(t), nil
	case map[string]any:
		return iterMap(t), len(t), nil
	case map[string]string:
		return iterMap(t), len(t), nil
	case map[string]int:
		return iterMap(t), len(t), nil
	case map[string]int64:
		return iterMap(t), len(t), nil
	case map[string]float64:
		return iterMap(t), len(t), nil
	case map[string]bool:
		return iterMap(t), len(t), nil
	case map[string]domain.Predicate:
		return iterMap(t), len(t), nil
	case map[string][]any:
		return iterMap(t), len(t), nil
	case map[string]time.Time:
		return iterMap(t), len(t), nil
	}
	return nil, 0, nil
}

func iterReflect(obj any) (iter.Seq2[string, any], int, error) {
	v := reflect.ValueNoEscapeOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, 0, ErrNilObj
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			break
		}
		i, l := iterReflectMap(v)
		return i, l, nil
	case reflect.Struct:
		if v.Type().Implements(fielderReflectType) {
			break
		}
		i, l := iterReflectStruct(v)
		return i, l, nil
	}
	return nil, 0, ErrorNonObject{Type: reflect.TypeOf(obj)}
}

func iterReflectMap(v reflect.Value) (iter.Seq2[string, any], int) {
	return func(yield func(string, any) bool) {
		for _, k := range v.MapKeys() {
			if !yield(k.String(), v.MapIndex(k).Interface()) {
				return
			}
		}
	}, v.Len()
}

func iterReflectStruct(v reflect.Value) (iter.Seq2[string, any], int) {
	type pair struct {
		Key   string
		Value any
	}
	fields := make([]pair, 0, v.NumField())
	for k, v := range listStructFields(v) {
		fields = append(fields, pair{Key: k, Value: v})
	}
	return func(yield func(string, any) bool) {
		for _, field := range fields {
			if !yield(field.Key, field.Value) {
				return
			}
		}
	}, len(fields)
}

func listStructFields(v reflect.Value) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		typ := v.Type()
		for n := range typ.NumField() {
			field := typ.Field(n)
			if field.PkgPath != "" {
				continue
			}

			name, omitEmpty, omitZero := field.Name, false, false
			if tag, ok := field.Tag.Lookup(TagName); ok {
				if tag == "-" {
					continue
				}
				parts := strings.Split(tag, ",")
				if parts[0] != "" {
					name = parts[0]
				}
				for _, opt := range parts[1:] {
					switch opt {
					case "omitempty":
						omitEmpty = true
					case "omitzero":
						omitZero = true
					}
				}
			}

			fv := v.Field(n)
			switch {
			case omitZero:
				if fv.IsZero() {
					continue
				}
			case omitEmpty:
				switch field.Type.Kind() {
				case reflect.Chan, reflect.Func, reflect.Map,
					reflect.Ptr, reflect.UnsafePointer,
					reflect.Interface, reflect.Slice:
					if fv.IsNil() {
						continue
					}
				}
			}
			if !yield(name, fv.Interface()) {
				return
			}
		}
	}
}

func iterMap[T any, M ~map[string]T](m M) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Seq returns an iterator over a slice or array of any type.
func Seq(obj any) (iter.Seq[any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	if i, length, err := fastPathList(obj); err != nil || i != nil {
		return i, length, err
	}
	v := reflect.ValueNoEscapeOf(obj)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for n := range v.Len() {
				if !yield(v.Index(n).Interface()) {
					return
				}
			}
		}, v.Len(), nil
	}
	return nil, 0, ErrorNonList{Type: reflect.TypeOf(obj)}
}

// IsList reports whether obj is a slice or an array. Byte slices are treated
// as scalar values.
func IsList(obj any) bool {
	if obj == nil {
		return false
	}
	if _, ok := obj.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(obj).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func fastPathList(obj any) (iter.Seq[any], int, error) {
	switch t := obj.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, *regexp.Regexp, []byte:
		return nil, 0, ErrorNonList{Type: reflect.TypeOf(obj)}
	case []any:
		return iterSlice(t), len(t), nil
	case []string:
		return iterSlice(t), len(t), nil
	case []int:
		return iterSlice(t), len(t), nil
	case []int64:
		return iterSlice(t), len(t), nil
	case []float64:
		return iterSlice(t), len(t), nil
	case []bool:
		return iterSlice(t), len(t), nil
	}
	return nil, 0, nil
}

func iterSlice[T any](m []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range m {
			if !yield(v) {
				return
			}
		}
	}
}
