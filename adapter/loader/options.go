package loader

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// WithConcurrency sets the maximum amount of concurrent single loads.
// Values above one require the adapter's LoadByID to be safe for concurrent
// use. Default is [DefaultConcurrency].
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}

// WithProjector sets the projector used when extraction falls back to full
// records.
func WithProjector(p domain.Projector) Option {
	return func(l *Loader) {
		l.proj = p
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Option configures loader behavior through the functional options pattern.
type Option func(*Loader)
