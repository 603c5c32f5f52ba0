// Package decoder contains the default [domain.Decoder] implementation.
//
// Records and rows are decoded as field maps, so a record can be scanned into
// a struct tagged with "synth", and a [domain.Context] mapping can be decoded
// into a fixed-shape dependency struct.
package decoder

import (
	"fmt"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/structure"
)

// Decoder implements domain.Decoder.
type Decoder struct {
	weak bool
}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder(opts ...Option) domain.Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithWeaklyTypedInput enables mapstructure's weak conversions, such as
// strings into numbers. It is used for values typed on a command line.
func WithWeaklyTypedInput(weak bool) Option {
	return func(d *Decoder) {
		d.weak = weak
	}
}

// Option configures decoder behavior through the functional options pattern.
type Option func(*Decoder)

// Decode implements domain.Decoder.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}

	if p, ok := target.(*domain.Record); ok {
		if r, ok := source.(domain.Record); ok {
			*p = r
			return nil
		}
	}
	source = d.adjust(source)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          structure.TagName,
		Result:           target,
		WeaklyTypedInput: d.weak,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		errDec := domain.ErrDecode{Source: source, Target: target}
		return fmt.Errorf("%w: %w", errDec, err)
	}
	return nil
}

func (d *Decoder) adjust(value any) any {
	switch t := value.(type) {
	case domain.Record:
		return d.adjust(t.Values())
	case domain.Row:
		row := make(map[string]any, len(t))
		for k, v := range t {
			row[k] = d.adjust(v)
		}
		return row
	case []any:
		lst := make([]any, len(t))
		for n, v := range t {
			lst[n] = d.adjust(v)
		}
		return lst
	default:
		return value
	}
}
