// Package stream runs per-recognizer consumption loops that feed the
// pipeline.
package stream

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
)

// Processor is the downstream a Consumer feeds, satisfied by
// pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, ev models.Event) error
}

// Consumer reads one recognizer stream's events, in order, into the
// pipeline. Because each event is pushed synchronously and the next one is
// not read until the previous call returns, a stream's ordering is
// preserved end to end and backpressure is implicit.
type Consumer struct {
	id       string
	pipeline Processor
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewConsumer creates a consumer feeding p.
func NewConsumer(p Processor) *Consumer {
	id := uuid.NewString()
	return &Consumer{
		id:       id,
		pipeline: p,
		metrics:  metrics.DefaultMetrics,
		logger:   logging.WithComponent("stream-consumer").With().Str("streamId", id).Logger(),
	}
}

// ID returns the consumer's stream ID.
func (c *Consumer) ID() string {
	return c.id
}

// Run consumes events until the channel closes or ctx is cancelled.
// Cancellation stops reading further events; it does not wait for pending
// enrichment work, which is the pipeline Shutdown's job.
//
// Sink errors are logged and do not stop the stream: losing one fan-out is
// recoverable, abandoning the recognizer mid-conversation is not.
func (c *Consumer) Run(ctx context.Context, events <-chan models.Event) error {
	c.metrics.RecordStreamStart()
	c.logger.Info().Msg("Stream consumption started")

	count := 0
	for {
		select {
		case <-ctx.Done():
			c.metrics.RecordStreamEnd("cancelled")
			c.logger.Info().Int("events", count).Msg("Stream consumption cancelled")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				c.metrics.RecordStreamEnd("completed")
				c.logger.Info().Int("events", count).Msg("Stream finished")
				return nil
			}
			count++
			if err := c.pipeline.Process(ctx, ev); err != nil {
				c.logger.Error().
					Err(err).
					Str("locale", ev.Locale).
					Str("source", ev.Source).
					Msg("Pipeline error for event")
			}
		}
	}
}
