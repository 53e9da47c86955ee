package events

import (
	"context"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
)

// Sink adapts a Publisher to the pipeline's sink interface so reconciled
// streams can fan out to Kafka alongside the in-process transcript view.
type Sink struct {
	publisher *Publisher
}

// NewSink wraps publisher as a pipeline sink.
func NewSink(publisher *Publisher) *Sink {
	return &Sink{publisher: publisher}
}

// Process publishes the event to the partial or final topic.
func (s *Sink) Process(ctx context.Context, ev models.Event) error {
	return s.publisher.Publish(ctx, ev)
}

// Shutdown flushes and closes the Kafka writers.
func (s *Sink) Shutdown(context.Context) error {
	return s.publisher.Close()
}
