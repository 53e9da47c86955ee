package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dougbradbury/pentecost-sub000/internal/models"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
	"github.com/dougbradbury/pentecost-sub000/internal/observability/metrics"
)

const broadcastStageName = "broadcast"

// Broadcast fans one event out to every sink concurrently and waits for all
// of them before returning. There is no ordering guarantee between sinks,
// but the caller is not released until every sink has handled the event.
type Broadcast struct {
	sinks    []Stage
	shutdown atomic.Bool
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewBroadcast creates a broadcast stage over the given sinks.
func NewBroadcast(sinks ...Stage) *Broadcast {
	return &Broadcast{
		sinks:   sinks,
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithStage(broadcastStageName),
	}
}

// Process dispatches ev to every sink concurrently and waits for all.
func (b *Broadcast) Process(ctx context.Context, ev models.Event) error {
	b.metrics.RecordForwarded(broadcastStageName)

	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range b.sinks {
		sink := sink
		g.Go(func() error {
			return sink.Process(ctx, ev)
		})
	}
	return g.Wait()
}

// Shutdown fans shutdown out to every sink concurrently and waits for all.
// It is idempotent: shutdown can be triggered by more than one code path
// (explicit stop plus a process-exit signal), and subsequent calls are
// no-ops.
func (b *Broadcast) Shutdown(ctx context.Context) error {
	if !b.shutdown.CompareAndSwap(false, true) {
		return nil
	}
	b.logger.Info().Int("sinks", len(b.sinks)).Msg("Shutting down sinks")

	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range b.sinks {
		sink := sink
		g.Go(func() error {
			return sink.Shutdown(ctx)
		})
	}
	return g.Wait()
}
