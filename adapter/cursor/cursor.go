// Package cursor contains the default [domain.Cursor] implementation.
//
// A cursor does not hold a result when created. It calls its
// [domain.Resolver] on the first call to [Cursor.Next], so a cursor over a
// scope sees the adapter as it is when iteration starts, and
// [Cursor.Rewind] makes the next pass resolve the scope again.
package cursor

import (
	"context"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// Cursor implements domain.Cursor.
type Cursor struct {
	resolve  domain.Resolver
	items    []domain.Fielder
	resolved bool
	err      error
	ctx      context.Context
	cancel   context.CancelCauseFunc
	dec      domain.Decoder
	index    int
}

// NewCursor returns a new implementation of Cursor iterating over what
// resolve returns. It matches [domain.CursorFactory]. A nil resolve yields no
// item.
func NewCursor(ctx context.Context, resolve domain.Resolver, options ...domain.CursorOption) (domain.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := domain.CursorOptions{
		Decoder: decoder.NewDecoder(),
	}
	for _, option := range options {
		option(&opts)
	}

	if resolve == nil {
		resolve = func(context.Context) ([]domain.Fielder, error) { return nil, nil }
	}

	ctx, cancel := context.WithCancelCause(ctx)
	return &Cursor{
		resolve: resolve,
		ctx:     ctx,
		cancel:  cancel,
		dec:     opts.Decoder,
		index:   -1,
	}, nil
}

// Next implements domain.Cursor. The first call after creation or after
// [Cursor.Rewind] resolves the items; a failed resolution is reported by
// [Cursor.Err].
func (c *Cursor) Next() bool {
	if c.ctx.Err() != nil || c.err != nil {
		return false
	}
	if !c.resolved {
		items, err := c.resolve(c.ctx)
		c.resolved = true
		if err != nil {
			c.err = err
			return false
		}
		c.items = items
	}
	if c.index+1 < len(c.items) {
		c.index++
		return true
	}
	return false
}

// Scan implements domain.Cursor. Records and rows are decoded as field maps.
func (c *Cursor) Scan(ctx context.Context, target any) error {
	if err := c.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	item := c.current()
	if item == nil {
		return domain.ErrScanBeforeNext
	}
	return c.dec.Decode(item, target)
}

// Record implements domain.Cursor.
func (c *Cursor) Record() domain.Record {
	r, _ := c.current().(domain.Record)
	return r
}

// Row implements domain.Cursor.
func (c *Cursor) Row() domain.Row {
	switch t := c.current().(type) {
	case domain.Record:
		return t.Values()
	case domain.Row:
		return t
	}
	return nil
}

// Rewind implements domain.Cursor. It clears a resolution error, so a
// failed pass can be retried.
func (c *Cursor) Rewind() error {
	if c.ctx.Err() != nil {
		return context.Cause(c.ctx)
	}
	c.items, c.resolved, c.err = nil, false, nil
	c.index = -1
	return nil
}

// Err implements domain.Cursor.
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return context.Cause(c.ctx)
}

// Close implements domain.Cursor.
func (c *Cursor) Close() error {
	if c.ctx.Err() != nil {
		return context.Cause(c.ctx)
	}
	c.cancel(domain.ErrCursorClosed)
	c.items = nil
	return nil
}

func (c *Cursor) current() domain.Fielder {
	if c.index < 0 || c.index >= len(c.items) {
		return nil
	}
	return c.items[c.index]
}
