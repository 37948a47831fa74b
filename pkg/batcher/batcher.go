// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Batcher buffers items and flushes them either by size or interval. Flush
// failures are logged and the batch dropped; the loop keeps running.
type Batcher[T any] struct {
	logger        *zap.Logger
	flushCallback func(context.Context, []T) error
	itemsCh       chan T
	buf           []T
	flushSize     int
	flushInterval time.Duration
	rl            ratelimit.Limiter

	wg   sync.WaitGroup
	stop chan struct{}
}

// New constructs a Batcher flushing through flushCallback, at most rps
// batches per second.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, []T) error, flushSize int, flushInterval time.Duration, rps int) *Batcher[T] {
	return &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		itemsCh:       make(chan T, flushSize*2),
		buf:           make([]T, 0, flushSize),
		flushSize:     flushSize,
		flushInterval: flushInterval,
		rl:            ratelimit.New(rps),
		stop:          make(chan struct{}),
	}
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop drains and stops the background flushing loop.
func (b *Batcher[T]) Stop() {
	close(b.stop)
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return context.Canceled
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case b.itemsCh <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.drain()
			b.flush(ctx)
			return

		case <-b.stop:
			b.drain()
			b.flush(ctx)
			return

		case item := <-b.itemsCh:
			b.buf = append(b.buf, item)
			if len(b.buf) >= b.flushSize {
				b.flush(ctx)
			}

		case <-ticker.C:
			b.flush(ctx)
		}
	}
}

// drain moves items queued in itemsCh but not yet received into the buffer
// so the final flush on shutdown covers them.
func (b *Batcher[T]) drain() {
	for {
		select {
		case item := <-b.itemsCh:
			b.buf = append(b.buf, item)
		default:
			return
		}
	}
}

func (b *Batcher[T]) flush(ctx context.Context) {
	if len(b.buf) == 0 {
		return
	}

	b.rl.Take()
	if err := b.flushCallback(ctx, b.buf); err != nil {
		b.logger.Error("batch not flushed", zap.Error(err))
	} else {
		b.logger.Debug("batch flushed", zap.Int("size", len(b.buf)))
	}
	b.buf = b.buf[:0]
}
