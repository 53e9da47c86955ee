package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
)

const minLengthStageName = "min_length_filter"

// MinLengthConfig tunes the partial-result length gate.
type MinLengthConfig struct {
	// MinimumWordCount is the word count below which a partial result is
	// dropped. Final results are never dropped here.
	MinimumWordCount int
}

// DefaultMinLengthConfig returns the default length gate.
func DefaultMinLengthConfig() MinLengthConfig {
	return MinLengthConfig{MinimumWordCount: 5}
}

// MinLengthFilter suppresses rapid, low-information partial updates
// ("I", "I am", ...) that would otherwise flood downstream sinks before a
// hypothesis settles into a meaningful form.
type MinLengthFilter struct {
	cfg     MinLengthConfig
	next    Stage
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewMinLengthFilter creates the filter in front of next.
func NewMinLengthFilter(cfg MinLengthConfig, next Stage) *MinLengthFilter {
	return &MinLengthFilter{
		cfg:     cfg,
		next:    next,
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithStage(minLengthStageName),
	}
}

// Process drops short partials; finals always pass regardless of length.
func (f *MinLengthFilter) Process(ctx context.Context, ev models.Event) error {
	if !ev.IsFinal && ev.WordCount() < f.cfg.MinimumWordCount {
		f.metrics.RecordDropped(minLengthStageName, "too_short")
		f.logger.Debug().
			Str("locale", ev.Locale).
			Str("source", ev.Source).
			Int("words", ev.WordCount()).
			Msg("Partial result below word minimum, dropped")
		return nil
	}
	f.metrics.RecordForwarded(minLengthStageName)
	return f.next.Process(ctx, ev)
}

// Shutdown propagates to the next stage.
func (f *MinLengthFilter) Shutdown(ctx context.Context) error {
	return f.next.Shutdown(ctx)
}
