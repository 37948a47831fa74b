// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process runs up to workerCount workers over the provided items. The first
// error cancels the remaining work; onCancel, when set, is invoked once per
// failed item before cancellation propagates.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
	onCancel func(),
) error {
	if workerCount < 1 {
		workerCount = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := process(ctx, item); err != nil {
				if onCancel != nil {
					onCancel()
				}
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
