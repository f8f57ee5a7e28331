// Package worker runs the shipping batch processor on a fixed interval.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BatchProcessor is the slice of the shipping service the worker drives.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) (int, error)
}

// Processor periodically drains the notification queue. Each tick keeps
// calling ProcessBatch until a batch comes back smaller than the configured
// batch size, so a backlog clears within one tick.
type Processor struct {
	svc       BatchProcessor
	interval  time.Duration
	batchSize int
	lg        *zap.Logger
}

// New creates a Processor. batchSize must match the service's batch size;
// it is only used to detect a drained queue.
func New(svc BatchProcessor, interval time.Duration, batchSize int, lg *zap.Logger) *Processor {
	return &Processor{
		svc:       svc,
		interval:  interval,
		batchSize: batchSize,
		lg:        lg,
	}
}

// Run processes batches until ctx is cancelled. It always returns nil so a
// supervising errgroup treats cancellation as a clean stop; transient
// processing errors are logged and retried on the next tick.
func (p *Processor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.lg.Info("shipping processor started",
		zap.Duration("interval", p.interval),
		zap.Int("batch_size", p.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			p.lg.Info("shipping processor stopped")
			return nil
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

// drain processes batches until the queue yields a partial batch.
func (p *Processor) drain(ctx context.Context) {
	for {
		n, err := p.svc.ProcessBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.lg.Warn("process batch", zap.Error(err))
			return
		}
		if n > 0 {
			p.lg.Debug("processed shipping batch", zap.Int("count", n))
		}
		if n < p.batchSize {
			return
		}
	}
}
