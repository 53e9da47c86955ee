package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/langdetect"
	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
	"github.com/dougbradbury/pentecost-sub000/internal/translate"
)

const translationStageName = "translation"

// drainPollInterval is how often Shutdown re-checks the in-flight counter.
const drainPollInterval = 10 * time.Millisecond

// TranslationConfig tunes the enrichment stage.
type TranslationConfig struct {
	// MinimumWordCount is the word count below which a partial result is
	// not translated. Finals are always translated. Independent of the
	// minimum-length filter's setting.
	MinimumWordCount int
	// Targets maps a recognizer locale (or bare language code) to the
	// language its results are translated into. A locale with no entry
	// produces no translated events.
	Targets map[string]string
}

// DefaultTranslationConfig returns the default enrichment tunables with an
// empty target table (translation disabled until targets are configured).
func DefaultTranslationConfig() TranslationConfig {
	return TranslationConfig{MinimumWordCount: 5}
}

// TranslationStage forwards every original event untouched and, for
// qualifying results, additionally emits an asynchronously translated copy.
// Translation never gates or delays delivery of the original-language line.
//
// Each launched translation is tracked; Shutdown blocks until the in-flight
// count reaches zero before propagating, so a caller who awaits Shutdown
// observes all translations either delivered or failed. A process that
// terminates without calling Shutdown may lose in-flight translations.
type TranslationStage struct {
	cfg        TranslationConfig
	translator translate.Translator
	next       Stage
	inflight   atomic.Int64
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewTranslationStage creates the stage in front of next.
func NewTranslationStage(cfg TranslationConfig, translator translate.Translator, next Stage) *TranslationStage {
	return &TranslationStage{
		cfg:        cfg,
		translator: translator,
		next:       next,
		metrics:    metrics.DefaultMetrics,
		logger:     logging.WithStage(translationStageName),
	}
}

// Inflight returns the number of translation attempts currently in flight.
func (s *TranslationStage) Inflight() int64 {
	return s.inflight.Load()
}

// Process forwards ev synchronously, then decides whether to also launch a
// translation for it.
func (s *TranslationStage) Process(ctx context.Context, ev models.Event) error {
	if err := s.next.Process(ctx, ev); err != nil {
		return err
	}

	target, ok := s.target(ev.Locale)
	if !ok {
		return nil
	}
	if !ev.IsFinal && ev.WordCount() < s.cfg.MinimumWordCount {
		return nil
	}

	s.launch(ctx, ev, target)
	return nil
}

// Shutdown waits for every launched translation to complete or fail, then
// shuts down the next stage. Returns the context's error if it is cancelled
// mid-drain.
func (s *TranslationStage) Shutdown(ctx context.Context) error {
	for s.inflight.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPollInterval):
		}
	}
	return s.next.Shutdown(ctx)
}

func (s *TranslationStage) target(locale string) (string, bool) {
	if t, ok := s.cfg.Targets[locale]; ok {
		return t, true
	}
	t, ok := s.cfg.Targets[langdetect.PrimarySubtag(locale)]
	return t, ok
}

func (s *TranslationStage) launch(ctx context.Context, ev models.Event, target string) {
	s.inflight.Add(1)
	s.metrics.RecordTranslationStart()

	go func() {
		defer s.inflight.Add(-1)

		source := langdetect.PrimarySubtag(ev.Locale)
		start := time.Now()
		text, err := s.translator.Translate(ctx, ev.Text, source, target)
		s.metrics.RecordTranslationEnd(err, time.Since(start).Seconds())
		if err != nil {
			// The original was already forwarded; the line degrades to
			// "no translation" rather than being lost.
			s.logger.Warn().
				Err(err).
				Str("locale", ev.Locale).
				Str("target", target).
				Str("source", ev.Source).
				Msg("Translation failed")
			return
		}

		translated := models.Event{
			Text:             "[" + target + "] " + text,
			IsFinal:          ev.IsFinal,
			StartTime:        ev.StartTime,
			Duration:         ev.Duration,
			AlternativeCount: 1,
			Locale:           target,
			Source:           ev.Source,
		}
		if err := s.next.Process(ctx, translated); err != nil {
			s.logger.Error().
				Err(err).
				Str("target", target).
				Str("source", ev.Source).
				Msg("Failed to forward translated event")
		}
	}()
}
