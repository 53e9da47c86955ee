package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
)

const artifactStageName = "artifact_filter"

// ArtifactConfig tunes recognizer-noise detection. Wrong-language
// misrecognition usually shows up as comma-heavy filler or a single word
// looping, so both signals are checked.
type ArtifactConfig struct {
	// CommaThreshold is the comma-to-length ratio at or above which text is
	// dropped as noise.
	CommaThreshold float64
	// RepetitionThreshold is the length of a run of consecutive identical
	// comma-separated tokens at or above which text is dropped.
	RepetitionThreshold int
}

// DefaultArtifactConfig returns the default noise thresholds.
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		CommaThreshold:      0.5,
		RepetitionThreshold: 4,
	}
}

// ArtifactFilter drops recognizer noise before anything else sees it.
type ArtifactFilter struct {
	cfg     ArtifactConfig
	next    Stage
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewArtifactFilter creates the filter in front of next.
func NewArtifactFilter(cfg ArtifactConfig, next Stage) *ArtifactFilter {
	return &ArtifactFilter{
		cfg:     cfg,
		next:    next,
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithStage(artifactStageName),
	}
}

// Process forwards ev unchanged unless its text looks like recognition
// noise. The original (untrimmed) text is what gets forwarded.
func (f *ArtifactFilter) Process(ctx context.Context, ev models.Event) error {
	trimmed := strings.TrimSpace(ev.Text)
	if trimmed == "" {
		f.drop(ev, "empty")
		return nil
	}

	commas := strings.Count(trimmed, ",")
	ratio := float64(commas) / float64(utf8.RuneCountInString(trimmed))
	if ratio >= f.cfg.CommaThreshold {
		f.drop(ev, "comma_ratio")
		return nil
	}

	// Catches strings that are only punctuation and space even when the
	// ratio math lands just under the threshold.
	stripped := strings.ReplaceAll(strings.ReplaceAll(trimmed, ",", ""), " ", "")
	if stripped == "" {
		f.drop(ev, "punctuation_only")
		return nil
	}

	if f.longestTokenRun(ev.Text) >= f.cfg.RepetitionThreshold {
		f.drop(ev, "repetition")
		return nil
	}

	f.metrics.RecordForwarded(artifactStageName)
	return f.next.Process(ctx, ev)
}

// Shutdown propagates to the next stage.
func (f *ArtifactFilter) Shutdown(ctx context.Context) error {
	return f.next.Shutdown(ctx)
}

// longestTokenRun returns the longest run of consecutive identical
// comma-separated tokens, case-insensitively. Empty tokens are skipped.
func (f *ArtifactFilter) longestTokenRun(text string) int {
	longest, run := 0, 0
	prev := ""
	for _, raw := range strings.Split(text, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		if token == prev {
			run++
		} else {
			prev = token
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func (f *ArtifactFilter) drop(ev models.Event, reason string) {
	f.metrics.RecordDropped(artifactStageName, reason)
	f.logger.Debug().
		Str("reason", reason).
		Str("locale", ev.Locale).
		Str("source", ev.Source).
		Str("text", ev.Text).
		Msg("Event dropped")
}
