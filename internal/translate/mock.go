package translate

import (
	"context"
	"fmt"
	"time"
)

// Mock is a Translator for tests and offline demo runs. It waits Delay
// (honoring context cancellation), then returns a tagged copy of the input,
// or Err when set.
type Mock struct {
	Delay time.Duration
	Err   error
}

// NewMock creates a mock translator with a small simulated latency.
func NewMock() *Mock {
	return &Mock{Delay: 20 * time.Millisecond}
}

func (m *Mock) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", &Error{SourceLang: sourceLang, TargetLang: targetLang, Err: ctx.Err()}
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return "", &Error{SourceLang: sourceLang, TargetLang: targetLang, Err: m.Err}
	}
	return fmt.Sprintf("(%s) %s", targetLang, text), nil
}
