package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	limits []int
	err    error
}

func (f *fakeSweeper) ExpireStale(_ context.Context, limit int) (int, error) {
	f.limits = append(f.limits, limit)
	return 2, f.err
}

func TestHandleExpireTask(t *testing.T) {
	sweeper := &fakeSweeper{}
	handler := handleExpireTask(sweeper, zap.NewNop())

	task, err := NewExpireTask(25)
	require.NoError(t, err)
	assert.Equal(t, TypeExpirePending, task.Type())
	require.NoError(t, handler.ProcessTask(context.Background(), task))

	require.NoError(t, handler.ProcessTask(context.Background(), asynq.NewTask(TypeExpirePending, []byte(`{}`))))
	assert.Equal(t, []int{25, defaultBatch}, sweeper.limits)
}

func TestHandleExpireTaskErrors(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("store down")}
	handler := handleExpireTask(sweeper, zap.NewNop())

	err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeExpirePending, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, sweeper.limits)

	task, err := NewExpireTask(10)
	require.NoError(t, err)
	assert.EqualError(t, handler.ProcessTask(context.Background(), task), "store down")
}

type tickSweeper chan int

func (t tickSweeper) ExpireStale(_ context.Context, limit int) (int, error) {
	select {
	case t <- limit:
	default:
	}
	return 0, nil
}

func TestEmptySpecDisablesSweep(t *testing.T) {
	w := NewWorker(asynq.RedisClientOpt{Addr: "127.0.0.1:0"}, &fakeSweeper{}, zap.NewNop())
	require.NoError(t, w.Start("", 50))
	w.Shutdown()

	sweeper := &fakeSweeper{}
	require.NoError(t, RunLocal(context.Background(), sweeper, "", 50, zap.NewNop()))
	assert.Empty(t, sweeper.limits)
}

func TestRunLocalRejectsBadSpec(t *testing.T) {
	err := RunLocal(context.Background(), &fakeSweeper{}, "every minute", 50, zap.NewNop())
	assert.ErrorContains(t, err, "invalid expiry sweep spec")
}

func TestRunLocalSweepsOnSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := make(tickSweeper, 1)
	done := make(chan error, 1)
	go func() { done <- RunLocal(ctx, sweeper, "@every 1s", 7, zap.NewNop()) }()

	select {
	case limit := <-sweeper:
		assert.Equal(t, 7, limit)
	case <-time.After(3 * time.Second):
		t.Fatal("sweep did not run")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("RunLocal did not stop")
	}
}
