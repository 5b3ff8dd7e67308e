package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Go_RunsTask(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	var ran atomic.Bool
	runner.Go("task", time.Second, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, runner.Drain(ctx))
	assert.True(t, ran.Load())
}

func TestRunner_Go_RecoverFromPanic(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	runner.Go("panicking", time.Second, func(ctx context.Context) error {
		panic("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, runner.Drain(ctx))
}

func TestRunner_Go_ErrorDoesNotPropagate(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	runner.Go("failing", time.Second, func(ctx context.Context) error {
		return errors.New("task failed")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, runner.Drain(ctx))
}

func TestRunner_Go_ContextDetachedWithTimeout(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	deadlines := make(chan bool, 1)
	runner.Go("deadline", 50*time.Millisecond, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlines <- ok
		<-ctx.Done()
		return ctx.Err()
	})

	assert.True(t, <-deadlines)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, runner.Drain(ctx))
}

func TestRunner_Drain_TimesOut(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	release := make(chan struct{})
	runner.Go("slow", time.Minute, func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, runner.Drain(ctx), context.DeadlineExceeded)

	close(release)
}
