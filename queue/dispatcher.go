package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/finsift/core"
)

const (
	// DefaultWorkers is the number of consume loops a dispatcher runs.
	DefaultWorkers = 1

	// DefaultPollInterval paces the empty-queue check.
	DefaultPollInterval = 250 * time.Millisecond
)

// Handler processes one claimed job. Failures are the handler's to record
// (the pipeline writes them to the document); the dispatcher acks the job
// either way so one poisoned document cannot wedge the queue.
type Handler func(ctx context.Context, job *core.ProcessingJob) error

// Dispatcher delivers queued jobs to worker loops. Each loop holds at
// most one claimed job at a time and acknowledges it only after the
// handler returns, so a crash between claim and ack leads to redelivery.
type Dispatcher struct {
	queue        *Queue
	handler      Handler
	workers      int
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher) error

// WithWorkers sets the number of concurrent consume loops.
// Default is DefaultWorkers.
func WithWorkers(workers int) Option {
	return func(d *Dispatcher) error {
		if workers > 0 {
			d.workers = workers
		}
		return nil
	}
}

// WithPollInterval sets the wait between checks of an empty queue.
// Default is DefaultPollInterval.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Dispatcher) error {
		if interval > 0 {
			d.pollInterval = interval
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDispatcher creates a dispatcher delivering the queue's jobs to handler.
func NewDispatcher(queue *Queue, handler Handler, opts ...Option) (*Dispatcher, error) {
	if queue == nil {
		return nil, ErrQueueRequired
	}
	if handler == nil {
		return nil, ErrHandlerRequired
	}

	d := &Dispatcher{
		queue:        queue,
		handler:      handler,
		workers:      DefaultWorkers,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Run consumes jobs until ctx is cancelled. It starts the configured
// number of worker loops and blocks until all of them stop. Cancellation
// is a clean shutdown and returns nil; any other loop failure is returned.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("dispatcher starting", "workers", d.workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < d.workers; w++ {
		worker := w
		g.Go(func() error {
			return d.consume(gctx, worker)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		d.logger.Info("dispatcher stopped")
		return nil
	}
	return err
}

// consume is one worker loop: claim a pending job, run the handler, ack.
func (d *Dispatcher) consume(ctx context.Context, worker int) error {
	logger := d.logger.With("worker", worker)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, claim, err := d.queue.repo.Claim(ctx)
		if err != nil {
			return fmt.Errorf("claim: %w", err)
		}
		if job == nil {
			if err := sleepContext(ctx, d.pollInterval); err != nil {
				return err
			}
			continue
		}

		logger.Info("claimed processing job", "document", job.DocumentId)
		if err := d.handler(ctx, job); err != nil {
			logger.Error("job handler failed", "document", job.DocumentId, "error", err)
		}
		if err := d.queue.repo.Ack(ctx, claim); err != nil {
			logger.Error("failed to ack job", "document", job.DocumentId, "error", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
