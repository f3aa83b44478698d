package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScheduler_RunsJobImmediatelyAndOnTicks(t *testing.T) {
	s := New(zap.NewNop())
	var runs atomic.Int64
	s.Register("counter", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int64(2))
}

func TestScheduler_SurvivesFailuresAndPanics(t *testing.T) {
	s := New(zap.NewNop())
	var runs atomic.Int64
	s.Register("flaky", 15*time.Millisecond, func(ctx context.Context) error {
		n := runs.Add(1)
		if n == 1 {
			panic("boom")
		}
		return errors.New("still failing")
	})

	s.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int64(2))
}

func TestScheduler_StopIsIdempotentBeforeStart(t *testing.T) {
	s := New(zap.NewNop())
	s.Stop()

	s.Register("noop", time.Hour, func(ctx context.Context) error { return nil })
	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
}
