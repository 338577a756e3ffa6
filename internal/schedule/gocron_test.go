package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"review-dashboard/internal/schedule"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGocron_RunNow(t *testing.T) {
	var calls atomic.Int32
	g := schedule.NewGocron(time.Second, logrus.New())

	task, err := g.Every(time.Hour, func(ctx context.Context) {
		calls.Add(1)
	})
	require.NoError(t, err)
	defer task.Stop()

	require.NoError(t, task.RunNow())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestGocron_RunsPeriodically(t *testing.T) {
	var calls atomic.Int32
	g := schedule.NewGocron(0, logrus.New())

	task, err := g.Every(20*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})
	require.NoError(t, err)
	defer task.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestGocron_PanicDoesNotStopSchedule(t *testing.T) {
	var calls atomic.Int32
	g := schedule.NewGocron(0, logrus.New())

	task, err := g.Every(20*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
		panic("boom")
	})
	require.NoError(t, err)
	defer task.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestGocron_StopCancelsContextAndIsIdempotent(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})
	g := schedule.NewGocron(0, logrus.New())

	task, err := g.Every(time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(canceled)
	})
	require.NoError(t, err)
	require.NoError(t, task.RunNow())

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}

	assert.NoError(t, task.Stop())
	assert.NoError(t, task.Stop())

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not canceled")
	}
}
