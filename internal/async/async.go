// Package async runs fire-and-forget side effects. Failures are logged and
// never propagate to the request that spawned them; the runner is drained on
// shutdown so in-flight work gets a chance to finish.
package async

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Runner spawns background tasks with panic recovery and failure logging.
type Runner struct {
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a new runner.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{
		logger: logger.With().Str("component", "async").Logger(),
	}
}

// Go runs fn in the background. The context is detached from the request
// with the given timeout so the task survives the response being sent.
func (r *Runner) Go(name string, timeout time.Duration, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error().
					Interface("panic", p).
					Str("task", name).
					Msg("panic in background task")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Error().Err(err).Str("task", name).Msg("background task failed")
		}
	}()
}

// Drain blocks until all spawned tasks finish or ctx expires.
func (r *Runner) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
