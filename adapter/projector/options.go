package projector

// WithStrict sets whether [Projector] fails on items lacking a requested
// field. When disabled, missing fields are projected as nil.
func WithStrict(strict bool) Option {
	return func(p *Projector) {
		p.strict = strict
	}
}

// Option configures projector behavior through the functional options pattern.
type Option func(*Projector)
