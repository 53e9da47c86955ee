package pipeline

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/langdetect"
	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
)

const languageStageName = "language_filter"

// minClassifiableRunes is the shortest final text worth classifying.
// Anything shorter carries too little signal and passes through.
const minClassifiableRunes = 10

// LanguageConfig tunes the language filter.
type LanguageConfig struct {
	// ConfidenceThreshold is the minimum detection confidence below which a
	// qualifying result is dropped.
	ConfidenceThreshold float64
}

// DefaultLanguageConfig returns the default language filter tunables.
func DefaultLanguageConfig() LanguageConfig {
	return LanguageConfig{ConfidenceThreshold: 0.7}
}

// LanguageFilter drops final results whose detected language disagrees with
// the recognizer's declared locale. When several recognizers listen to the
// same audio for different languages, the wrong-language ones still emit
// low-confidence transcripts; this is what suppresses them.
//
// Partial results and short finals always pass, and so does anything the
// detector cannot classify (fail open).
type LanguageFilter struct {
	cfg      LanguageConfig
	detector langdetect.Detector
	next     Stage
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewLanguageFilter creates the filter in front of next.
func NewLanguageFilter(cfg LanguageConfig, detector langdetect.Detector, next Stage) *LanguageFilter {
	return &LanguageFilter{
		cfg:      cfg,
		detector: detector,
		next:     next,
		metrics:  metrics.DefaultMetrics,
		logger:   logging.WithStage(languageStageName),
	}
}

// Process classifies qualifying finals and drops mismatches.
func (f *LanguageFilter) Process(ctx context.Context, ev models.Event) error {
	if !ev.IsFinal || utf8.RuneCountInString(ev.Text) < minClassifiableRunes {
		f.metrics.RecordForwarded(languageStageName)
		return f.next.Process(ctx, ev)
	}

	detected, confidence, ok := f.detector.Detect(ev.Text)
	if !ok {
		// No dominant language: not enough signal to reject.
		f.metrics.RecordForwarded(languageStageName)
		return f.next.Process(ctx, ev)
	}

	if !langdetect.Equivalent(detected, ev.Locale) {
		f.drop(ev, detected, confidence, "language_mismatch")
		return nil
	}
	if confidence < f.cfg.ConfidenceThreshold {
		f.drop(ev, detected, confidence, "low_confidence")
		return nil
	}

	f.metrics.RecordForwarded(languageStageName)
	return f.next.Process(ctx, ev)
}

// Shutdown propagates to the next stage.
func (f *LanguageFilter) Shutdown(ctx context.Context) error {
	return f.next.Shutdown(ctx)
}

func (f *LanguageFilter) drop(ev models.Event, detected string, confidence float64, reason string) {
	f.metrics.RecordDropped(languageStageName, reason)
	f.logger.Debug().
		Str("reason", reason).
		Str("locale", ev.Locale).
		Str("detected", detected).
		Float64("confidence", confidence).
		Str("text", ev.Text).
		Msg("Event dropped")
}
