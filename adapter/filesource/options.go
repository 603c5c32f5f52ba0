package filesource

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// WithCorruptAlertThreshold sets the rate of unreadable JSON lines tolerated
// before reading fails. Default is 0.1.
func WithCorruptAlertThreshold(v float64) Option {
	return func(s *Source) {
		s.threshold = v
	}
}

// WithComparer sets the comparer used to tell identifiers apart.
func WithComparer(c domain.Comparer) Option {
	return func(s *Source) {
		s.comparer = c
	}
}

// WithHasher sets the hasher used to index identifiers.
func WithHasher(h domain.Hasher) Option {
	return func(s *Source) {
		s.hasher = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// Option configures source behavior through the functional options pattern.
type Option func(*Source)
