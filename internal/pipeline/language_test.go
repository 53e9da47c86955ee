package pipeline

import (
	"context"
	"testing"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
)

func TestLanguageFilter_PartialsAlwaysPass(t *testing.T) {
	next := &captureStage{}
	// Detector would reject everything, but partials are never classified.
	f := NewLanguageFilter(DefaultLanguageConfig(), stubDetector{lang: "fr", confidence: 0.99, ok: true}, next)

	if err := f.Process(context.Background(), partialEvent("this partial is plenty long enough", 1.0, 0.5)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(next.Events()) != 1 {
		t.Error("expected partial to pass unclassified")
	}
}

func TestLanguageFilter_ShortFinalsPass(t *testing.T) {
	next := &captureStage{}
	f := NewLanguageFilter(DefaultLanguageConfig(), stubDetector{lang: "fr", confidence: 0.99, ok: true}, next)

	// 9 runes: below the classification minimum.
	if err := f.Process(context.Background(), finalEvent("architect", 1.0, 0.5)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(next.Events()) != 1 {
		t.Error("expected short final to pass unclassified")
	}
}

func TestLanguageFilter_MismatchDropped(t *testing.T) {
	next := &captureStage{}
	f := NewLanguageFilter(DefaultLanguageConfig(), stubDetector{lang: "fr", confidence: 0.95, ok: true}, next)

	if err := f.Process(context.Background(), finalEvent("this was recognised by the wrong recognizer", 1.0, 0.5)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(next.Events()) != 0 {
		t.Error("expected mismatched final to be dropped")
	}
}

func TestLanguageFilter_LowConfidenceDropped(t *testing.T) {
	next := &captureStage{}
	f := NewLanguageFilter(DefaultLanguageConfig(), stubDetector{lang: "en", confidence: 0.4, ok: true}, next)

	if err := f.Process(context.Background(), finalEvent("this matches but only barely at all", 1.0, 0.5)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(next.Events()) != 0 {
		t.Error("expected low-confidence final to be dropped")
	}
}

func TestLanguageFilter_NoDetectionFailsOpen(t *testing.T) {
	next := &captureStage{}
	f := NewLanguageFilter(DefaultLanguageConfig(), stubDetector{ok: false}, next)

	if err := f.Process(context.Background(), finalEvent("completely unclassifiable gibberish here", 1.0, 0.5)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(next.Events()) != 1 {
		t.Error("expected undetectable final to pass (fail open)")
	}
}

func TestLanguageFilter_DialectEquivalence(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		detected string
		want     bool
	}{
		{"bare matches dialect", "fr-CA", "fr", true},
		{"dialect matches bare", "fr", "fr", true},
		{"underscore separator", "en_GB", "en", true},
		{"different language", "en-US", "de", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &captureStage{}
			f := NewLanguageFilter(DefaultLanguageConfig(), stubDetector{lang: tt.detected, confidence: 0.95, ok: true}, next)

			ev := models.Event{
				Text:    "a sentence long enough to classify",
				IsFinal: true,
				Locale:  tt.locale,
				Source:  "local",
			}
			if err := f.Process(context.Background(), ev); err != nil {
				t.Fatalf("Process: %v", err)
			}
			forwarded := len(next.Events()) == 1
			if forwarded != tt.want {
				t.Errorf("locale %s / detected %s: forwarded=%v, want %v", tt.locale, tt.detected, forwarded, tt.want)
			}
		})
	}
}
