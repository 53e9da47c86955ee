package transcript

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
)

// Sink is a pipeline sink that reconciles incoming events into one Buffer
// per transcript column. Columns are keyed by (source, locale) so that a
// translated stream never collides with the original-language stream it was
// derived from.
type Sink struct {
	mu      sync.RWMutex
	buffers map[string]*Buffer
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewSink creates an empty transcript sink.
func NewSink() *Sink {
	return &Sink{
		buffers: make(map[string]*Buffer),
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithComponent("transcript-sink"),
	}
}

// Process merges the event into its column's buffer.
func (s *Sink) Process(_ context.Context, ev models.Event) error {
	b := s.buffer(ev.StreamKey())
	b.Update(ev)
	s.metrics.RecordBufferSize(ev.StreamKey(), b.Len())
	return nil
}

// Shutdown is a no-op; the buffers hold no draining work.
func (s *Sink) Shutdown(context.Context) error {
	s.logger.Debug().Msg("Transcript sink shut down")
	return nil
}

// Columns returns the known column keys.
func (s *Sink) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.buffers))
	for k := range s.buffers {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns a copy of every column's ordered messages.
func (s *Sink) Snapshot() map[string][]Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]Message, len(s.buffers))
	for k, b := range s.buffers {
		out[k] = b.Messages()
	}
	return out
}

// Clear empties every column. Operator action, never event-triggered.
func (s *Sink) Clear() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.buffers {
		b.Clear()
	}
}

func (s *Sink) buffer(key string) *Buffer {
	s.mu.RLock()
	b, ok := s.buffers[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buffers[key]; ok {
		return b
	}
	b = NewBuffer()
	s.buffers[key] = b
	s.logger.Info().Str("column", key).Msg("New transcript column")
	return b
}
