// Package translate defines the translation capability consumed by the
// pipeline's enrichment stage, with an Ollama-backed implementation and a
// mock for tests and offline runs.
package translate

import (
	"context"
	"fmt"
)

// Error is a failed translation attempt. It carries the language pair so
// callers can log which recognizer stream the failure belongs to.
type Error struct {
	SourceLang string
	TargetLang string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translate %s to %s: %v", e.SourceLang, e.TargetLang, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Translator converts text between languages. Implementations must be safe
// for concurrent use; the pipeline launches one call per qualifying event.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
