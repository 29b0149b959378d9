package expiry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (e *countingExpirer) ExpirePending(context.Context) (int, error) {
	e.calls.Add(1)
	return 0, e.err
}

func TestWorker_SweepsUntilCancelled(t *testing.T) {
	expirer := &countingExpirer{err: errors.New("db down")}
	w := NewWorker(expirer, 5*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return expirer.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestNewWorker_DefaultInterval(t *testing.T) {
	w := NewWorker(&countingExpirer{}, 0, logger.NewNop())
	assert.Equal(t, defaultInterval, w.interval)
}
