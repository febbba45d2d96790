package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type targetFunc func(ctx context.Context) error

func (f targetFunc) Refresh(ctx context.Context) error { return f(ctx) }

func TestRefresherRunsOnInterval(t *testing.T) {
	var calls atomic.Int32
	r := New(100*time.Millisecond, targetFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}), nil)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
}

func TestRefresherWaitsForFirstInterval(t *testing.T) {
	var calls atomic.Int32
	r := New(time.Hour, targetFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}), nil)

	require.NoError(t, r.Start(context.Background()))
	time.Sleep(100 * time.Millisecond)
	r.Stop()

	assert.Equal(t, int32(0), calls.Load(), "bootstrap is done by the caller, not by the first tick")
}

func TestRefresherStopCancelsInFlightRefresh(t *testing.T) {
	started := make(chan struct{}, 1)
	finished := make(chan error, 1)

	r := New(50*time.Millisecond, targetFunc(func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		select {
		case finished <- ctx.Err():
		default:
		}
		return ctx.Err()
	}), nil)

	require.NoError(t, r.Start(context.Background()))

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh never started")
	}

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()

	select {
	case err := <-finished:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight refresh was not cancelled")
	}

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRefresherStopIsIdempotent(t *testing.T) {
	r := New(time.Hour, targetFunc(func(context.Context) error { return nil }), nil)
	r.Stop()

	require.NoError(t, r.Start(context.Background()))
	r.Stop()
	r.Stop()
}

func TestRefresherRejectsSecondStart(t *testing.T) {
	r := New(time.Hour, targetFunc(func(context.Context) error { return nil }), nil)
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Error(t, r.Start(context.Background()))
}

func TestRunLogsFailureAndKeepsGoing(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var calls atomic.Int32
	r := New(time.Hour, targetFunc(func(context.Context) error {
		calls.Add(1)
		return errors.New("upstream down")
	}), zap.New(core))

	r.run(context.Background())
	r.run(context.Background())

	assert.Equal(t, int32(2), calls.Load())
	failures := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, failures, 2)
	assert.Equal(t, "refresher", failures[0].LoggerName)
}

func TestRunSkipsWhenCancelled(t *testing.T) {
	var calls atomic.Int32
	r := New(time.Hour, targetFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.run(ctx)

	assert.Equal(t, int32(0), calls.Load())
}

func TestNewDefaultsInterval(t *testing.T) {
	r := New(0, targetFunc(func(context.Context) error { return nil }), nil)
	assert.Equal(t, DefaultInterval, r.interval)
}
