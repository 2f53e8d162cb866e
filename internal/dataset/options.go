package dataset

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/pommerman/eventstats/pkg/core"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used by the builder and its parser.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithVocabulary sets the closed sets run configurations are validated against.
func WithVocabulary(v core.Vocabulary) Option {
	return func(b *Builder) {
		b.vocab = v
	}
}

// WithWorkers bounds the number of game logs parsed concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithMeter sets the meter the builder counters are created from.
func WithMeter(m metric.Meter) Option {
	return func(b *Builder) {
		if m != nil {
			b.meter = m
		}
	}
}
