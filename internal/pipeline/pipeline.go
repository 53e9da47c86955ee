// Package pipeline implements the event processing chain: artifact and
// language filtering, partial-length gating, asynchronous translation
// enrichment, and concurrent fan-out to sinks.
//
// Stages form a chain of responsibility wired at construction time. Each
// stage either drops an event (the chain short-circuits for that event) or
// forwards it, possibly transformed, to its next stage. The translation
// stage is the only one that adds events.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/langdetect"
	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
	"github.com/dougbradbury/pentecost-sub000/internal/translate"
)

// Stage is one unit of the event pipeline. Sinks implement the same
// interface; a sink with no draining work returns nil from Shutdown.
//
// Process must not reorder the events it forwards for a given
// (locale, source) stream. Shutdown drains any asynchronous work the stage
// owns, then propagates to the stage(s) after it.
type Stage interface {
	Process(ctx context.Context, ev models.Event) error
	Shutdown(ctx context.Context) error
}

// Config carries the tunables for the filtering and enrichment stages.
type Config struct {
	Artifact    ArtifactConfig
	Language    LanguageConfig
	MinLength   MinLengthConfig
	Translation TranslationConfig
}

// DefaultConfig returns the default stage tunables.
func DefaultConfig() Config {
	return Config{
		Artifact:    DefaultArtifactConfig(),
		Language:    DefaultLanguageConfig(),
		MinLength:   DefaultMinLengthConfig(),
		Translation: DefaultTranslationConfig(),
	}
}

// Pipeline is the composed stage chain. Events enter at the artifact filter
// and, if not dropped on the way, fan out to every sink.
type Pipeline struct {
	head    Stage
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// New wires the stage chain in processing order:
// artifact, language, minimum-length, translation, broadcast(sinks...).
//
// A nil detector disables language filtering (every event passes, matching
// the filter's fail-open rule). A nil translator or an empty target table
// disables the translation stage; originals still flow through untouched.
func New(cfg Config, detector langdetect.Detector, translator translate.Translator, sinks ...Stage) *Pipeline {
	var next Stage = NewBroadcast(sinks...)
	if translator != nil && len(cfg.Translation.Targets) > 0 {
		next = NewTranslationStage(cfg.Translation, translator, next)
	}
	next = NewMinLengthFilter(cfg.MinLength, next)
	if detector != nil {
		next = NewLanguageFilter(cfg.Language, detector, next)
	}
	next = NewArtifactFilter(cfg.Artifact, next)

	return &Pipeline{
		head:    next,
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithComponent("pipeline"),
	}
}

// Process pushes one recognition event through the chain. A dropped event is
// not an error; errors come from sinks only.
func (p *Pipeline) Process(ctx context.Context, ev models.Event) error {
	p.metrics.RecordIngested(ev.Locale, ev.Source)
	return p.head.Process(ctx, ev)
}

// Shutdown drains the chain front to back: every stage finishes its
// asynchronous work before the stages after it are shut down, so a caller
// who awaits Shutdown observes every launched translation either delivered
// or failed, never silently lost.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.logger.Info().Msg("Draining pipeline")
	return p.head.Shutdown(ctx)
}
