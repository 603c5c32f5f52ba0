package sqlsource

import "log/slog"

// WithDialect sets the statement dialect. Default is [SQLite].
func WithDialect(d Dialect) Option {
	return func(a *Adapter) {
		a.dialect = d
	}
}

// WithBatchSize sets the maximum amount of ids bound in a single IN clause.
func WithBatchSize(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithContextColumn restricts every statement to rows whose column equals
// the value of the context key, when the key is set. The key is added to the
// declared context keys.
func WithContextColumn(key, column string) Option {
	return func(a *Adapter) {
		a.Keys = append(a.Keys, key)
		a.scopes = append(a.scopes, contextColumn{key: key, column: column})
	}
}

// WithLogger sets the logger used to trace statements.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// Option configures adapter behavior through the functional options pattern.
type Option func(*Adapter)
