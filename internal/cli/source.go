package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/filesource"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/memory"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/sqlsource"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"

	// sql source drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// OpenSource returns the adapter described by cfg. The returned function
// releases its resources.
func OpenSource(ctx context.Context, cfg SourceConfig, log *slog.Logger) (domain.Adapter, func() error, error) {
	switch cfg.Type {
	case SourceFile:
		a, err := openFile(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return a, func() error { return nil }, nil
	case SourceSQL:
		return openSQL(cfg, log)
	}
	return nil, nil, fmt.Errorf("unknown source type %q", cfg.Type)
}

func openFile(ctx context.Context, cfg SourceConfig, log *slog.Logger) (*memory.Adapter, error) {
	src := filesource.New(filesource.WithLogger(log))
	opts := visibility(cfg.ContextColumns)

	if len(cfg.Columns) > 0 {
		def := record.NewDefinition(cfg.Name, cfg.Columns...)
		return src.Open(ctx, cfg.Path, def, opts...)
	}

	// columns are every field found in the file
	values, err := src.ReadFile(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]struct{})
	items := make([]any, len(values))
	for n, v := range values {
		for k := range v {
			fields[k] = struct{}{}
		}
		items[n] = v
	}
	delete(fields, domain.IDField)
	def := record.NewDefinition(cfg.Name, slices.Sorted(maps.Keys(fields))...)
	a := memory.New(def, opts...)
	if _, err := a.Insert(items...); err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.Path, err)
	}
	return a, nil
}

// visibility restricts records to the ones whose context column equals the
// context value, for every context key set.
func visibility(columns map[string]string) []memory.Option {
	if len(columns) == 0 {
		return nil
	}
	cmp := comparer.NewComparer()
	keys := slices.Sorted(maps.Keys(columns))
	return []memory.Option{
		memory.WithContextKeys(keys...),
		memory.WithVisibility(func(r domain.Record, c domain.Context) bool {
			for _, key := range keys {
				want, ok := c.Get(key)
				if !ok {
					continue
				}
				got, _ := r.Field(columns[key])
				if !cmp.Comparable(got, want) {
					return false
				}
				if n, err := cmp.Compare(got, want); err != nil || n != 0 {
					return false
				}
			}
			return true
		}),
	}
}

func openSQL(cfg SourceConfig, log *slog.Logger) (domain.Adapter, func() error, error) {
	dialect, ok := sqlsource.DialectFor(cfg.Driver)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	opts := []sqlsource.Option{
		sqlsource.WithDialect(dialect),
		sqlsource.WithLogger(log),
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.ContextColumns)) {
		opts = append(opts, sqlsource.WithContextColumn(key, cfg.ContextColumns[key]))
	}

	a, err := sqlsource.New(db, record.NewDefinition(cfg.Name, cfg.Columns...), cfg.Table, opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return a, db.Close, nil
}
