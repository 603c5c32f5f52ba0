// Package loader resolves identifiers into records or rows through a
// [domain.Adapter], using its batch paths when it provides them.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/projector"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the amount of concurrent [domain.Adapter.LoadByID]
// calls made when the adapter has no batch path. Ids are loaded one after
// the other unless [WithConcurrency] raises it.
const DefaultConcurrency = 1

// Loader wraps a [domain.Adapter].
type Loader struct {
	adapter     domain.Adapter
	proj        domain.Projector
	concurrency int
	log         *slog.Logger
}

// New returns a [Loader] for a.
func New(a domain.Adapter, opts ...Option) *Loader {
	l := &Loader{
		adapter:     a,
		proj:        projector.NewProjector(projector.WithStrict(false)),
		concurrency: DefaultConcurrency,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadByIDs returns one entry per id, in the same order. Entries are nil for
// ids that do not resolve.
func (l *Loader) LoadByIDs(ctx context.Context, ids []any, c domain.Context) ([]domain.Record, error) {
	if len(ids) == 0 {
		return make([]domain.Record, 0), nil
	}

	if bl, ok := l.adapter.(domain.BatchLoader); ok {
		res, err := bl.LoadByIDs(ctx, ids, c)
		if err != nil {
			return nil, fmt.Errorf("loading %s records: %w", l.adapter.Name(), err)
		}
		if len(res) != len(ids) {
			return nil, domain.ErrBatchLength{Want: len(ids), Got: len(res)}
		}
		return res, nil
	}

	l.log.DebugContext(ctx, "loading records one by one",
		"adapter", l.adapter.Name(),
		"ids", len(ids),
		"concurrency", l.concurrency,
	)

	if l.concurrency <= 1 {
		return l.loadSequential(ctx, ids, c)
	}
	return l.loadConcurrent(ctx, ids, c)
}

func (l *Loader) loadSequential(ctx context.Context, ids []any, c domain.Context) ([]domain.Record, error) {
	res := make([]domain.Record, len(ids))
	for n, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := l.adapter.LoadByID(ctx, id, c)
		if err != nil {
			return nil, fmt.Errorf("loading %s %v: %w", l.adapter.Name(), id, err)
		}
		res[n] = r
	}
	return res, nil
}

// loadConcurrent requires a LoadByID safe for concurrent use.
func (l *Loader) loadConcurrent(ctx context.Context, ids []any, c domain.Context) ([]domain.Record, error) {
	res := make([]domain.Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for n, id := range ids {
		g.Go(func() error {
			r, err := l.adapter.LoadByID(gctx, id, c)
			if err != nil {
				return fmt.Errorf("loading %s %v: %w", l.adapter.Name(), id, err)
			}
			res[n] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// ExtractByIDs returns one row per id, in the same order, holding at least
// the given fields. Entries are nil for ids that do not resolve. Adapters
// without an extraction path, or whose path returns an error wrapping
// [errors.ErrUnsupported], are served by loading full records and projecting
// them. Projected fields the records lack are set to nil.
func (l *Loader) ExtractByIDs(ctx context.Context, ids []any, fields []string, c domain.Context) ([]domain.Row, error) {
	if len(ids) == 0 {
		return make([]domain.Row, 0), nil
	}

	if ex, ok := l.adapter.(domain.Extractor); ok {
		rows, err := ex.ExtractByIDs(ctx, ids, fields, c)
		switch {
		case errors.Is(err, errors.ErrUnsupported):
			l.log.DebugContext(ctx, "extraction unsupported, projecting records",
				"adapter", l.adapter.Name(),
				"fields", fields,
				"reason", err,
			)
		case err != nil:
			return nil, fmt.Errorf("extracting %s rows: %w", l.adapter.Name(), err)
		default:
			return l.checkRows(ids, fields, rows)
		}
	}

	records, err := l.LoadByIDs(ctx, ids, c)
	if err != nil {
		return nil, err
	}
	return l.project(records, fields)
}

func (l *Loader) checkRows(ids []any, fields []string, rows []domain.Row) ([]domain.Row, error) {
	if len(rows) != len(ids) {
		return nil, domain.ErrBatchLength{Want: len(ids), Got: len(rows)}
	}
	for n, row := range rows {
		if row == nil {
			continue
		}
		for _, f := range fields {
			if _, ok := row[f]; !ok {
				return nil, domain.ErrMissingField{ID: ids[n], Field: f}
			}
		}
	}
	return rows, nil
}

func (l *Loader) project(records []domain.Record, fields []string) ([]domain.Row, error) {
	res := make([]domain.Row, len(records))
	present := make([]domain.Fielder, 0, len(records))
	for _, r := range records {
		if r != nil {
			present = append(present, r)
		}
	}
	projected, err := l.proj.Project(present, fields)
	if err != nil {
		return nil, err
	}
	i := 0
	for n, r := range records {
		if r != nil {
			res[n] = projected[i]
			i++
		}
	}
	return res, nil
}
