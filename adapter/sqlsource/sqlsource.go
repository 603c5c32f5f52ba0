// Package sqlsource contains a [domain.Adapter] over a database table.
//
// Declared record fields map to columns of the same name. The adapter
// provides batch paths for both [domain.BatchLoader] and [domain.Extractor],
// so plucking selects only the needed columns.
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/base"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/hasher"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// ErrInvalidIdentifier is returned when a table or column name cannot be
// quoted safely.
type ErrInvalidIdentifier struct {
	Name string
}

// Error implements [error].
func (e ErrInvalidIdentifier) Error() string {
	return fmt.Sprintf("invalid sql identifier %q", e.Name)
}

type contextColumn struct {
	key    string
	column string
}

// Adapter implements [domain.Adapter], [domain.BatchLoader] and
// [domain.Extractor].
type Adapter struct {
	base.Adapter
	db        *sql.DB
	table     string
	dialect   Dialect
	batchSize int
	scopes    []contextColumn
	comparer  domain.Comparer
	hasher    domain.Hasher
	log       *slog.Logger
}

// New returns an [Adapter] reading records of def from table.
func New(db *sql.DB, def *record.Definition, table string, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		Adapter:   base.New(def),
		db:        db,
		table:     table,
		dialect:   SQLite,
		batchSize: 500,
		comparer:  comparer.NewComparer(),
		hasher:    hasher.NewHasher(),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}

	idents := append([]string{table}, def.Columns()...)
	for _, sc := range a.scopes {
		idents = append(idents, sc.column)
	}
	for _, ident := range idents {
		if !validIdentifier(ident) {
			return nil, ErrInvalidIdentifier{Name: ident}
		}
	}
	return a, nil
}

// AllIDs implements [domain.Adapter]. Identifiers are ordered by value.
func (a *Adapter) AllIDs(ctx context.Context, c domain.Context) ([]any, error) {
	where, args := a.conditions(c, 0)
	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		a.dialect.Quote(domain.IDField),
		a.dialect.Quote(a.table),
		where,
		a.dialect.Quote(domain.IDField),
	)

	rows, err := a.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []any
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, normalize(id))
	}
	return ids, rows.Err()
}

// LoadByID implements [domain.Adapter].
func (a *Adapter) LoadByID(ctx context.Context, id any, c domain.Context) (domain.Record, error) {
	res, err := a.LoadByIDs(ctx, []any{id}, c)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// LoadByIDs implements [domain.BatchLoader].
func (a *Adapter) LoadByIDs(ctx context.Context, ids []any, c domain.Context) ([]domain.Record, error) {
	rows, err := a.selectByIDs(ctx, ids, a.Columns(), c)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Record, len(rows))
	for n, row := range rows {
		if row == nil {
			continue
		}
		r, err := a.Def.New(row)
		if err != nil {
			return nil, err
		}
		res[n] = r
	}
	return res, nil
}

// ExtractByIDs implements [domain.Extractor]. Field sets holding undeclared
// fields are declined with an error wrapping [errors.ErrUnsupported].
func (a *Adapter) ExtractByIDs(ctx context.Context, ids []any, fields []string, c domain.Context) ([]domain.Row, error) {
	for _, f := range fields {
		if !a.Def.Declares(f) {
			return nil, fmt.Errorf("column %q of %s: %w", f, a.table, errors.ErrUnsupported)
		}
	}
	cols := slices.Clone(fields)
	if !slices.Contains(cols, domain.IDField) {
		cols = append([]string{domain.IDField}, cols...)
	}
	selected, err := a.selectByIDs(ctx, ids, cols, c)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Row, len(selected))
	for n, m := range selected {
		if m != nil {
			res[n] = m
		}
	}
	return res, nil
}

// selectByIDs returns one field map per id, in the same order, nil for ids
// without a row. cols must hold the identifier column.
func (a *Adapter) selectByIDs(ctx context.Context, ids []any, cols []string, c domain.Context) ([]map[string]any, error) {
	found := make(map[uint64][]map[string]any, len(ids))
	for chunk := range slices.Chunk(ids, a.batchSize) {
		if err := a.selectChunk(ctx, chunk, cols, c, found); err != nil {
			return nil, err
		}
	}

	res := make([]map[string]any, len(ids))
	for n, id := range ids {
		h, err := a.hasher.Hash(id)
		if err != nil {
			return nil, err
		}
		for _, m := range found[h] {
			if cmp, err := a.comparer.Compare(m[domain.IDField], id); err == nil && cmp == 0 {
				res[n] = m
				break
			}
		}
	}
	return res, nil
}

func (a *Adapter) selectChunk(ctx context.Context, ids []any, cols []string, c domain.Context, found map[uint64][]map[string]any) error {
	quoted := make([]string, len(cols))
	for n, col := range cols {
		quoted[n] = a.dialect.Quote(col)
	}
	marks := make([]string, len(ids))
	for n := range ids {
		marks[n] = a.dialect.Placeholder(n + 1)
	}
	where, args := a.conditions(c, len(ids))

	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)%s",
		strings.Join(quoted, ", "),
		a.dialect.Quote(a.table),
		a.dialect.Quote(domain.IDField),
		strings.Join(marks, ", "),
		strings.Replace(where, " WHERE ", " AND ", 1),
	)

	rows, err := a.query(ctx, q, append(slices.Clone(ids), args...))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for n := range values {
			ptrs[n] = &values[n]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		m := make(map[string]any, len(cols))
		for n, col := range cols {
			m[col] = normalize(values[n])
		}
		h, err := a.hasher.Hash(m[domain.IDField])
		if err != nil {
			return err
		}
		found[h] = append(found[h], m)
	}
	return rows.Err()
}

// conditions renders the context column restrictions. Placeholders are
// numbered after the first offset arguments.
func (a *Adapter) conditions(c domain.Context, offset int) (string, []any) {
	var conds []string
	var args []any
	for _, sc := range a.scopes {
		v, ok := c.Get(sc.key)
		if !ok {
			continue
		}
		args = append(args, v)
		conds = append(conds, a.dialect.Quote(sc.column)+" = "+a.dialect.Placeholder(offset+len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (a *Adapter) query(ctx context.Context, q string, args []any) (*sql.Rows, error) {
	a.log.DebugContext(ctx, "querying", "adapter", a.Name(), "sql", q, "args", len(args))
	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", a.table, err)
	}
	return rows, nil
}

// normalize converts driver values into the types records hold.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
