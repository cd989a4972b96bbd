package scheduler

import (
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(log.New(io.Discard, "", 0))
	s.Start()
	t.Cleanup(func() { <-s.Stop().Done() })
	return s
}

func TestOnceSchedule(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := onceSchedule{at: at}

	assert.Equal(t, at, s.Next(at.Add(-time.Minute)))
	assert.True(t, s.Next(at).IsZero())
	assert.True(t, s.Next(at.Add(time.Second)).IsZero())
}

func TestAfter_RunsOnceAndIsRemoved(t *testing.T) {
	s := newTestScheduler(t)

	var calls atomic.Int32
	done := make(chan struct{}, 1)
	s.After(1, 20*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})
	assert.Equal(t, 1, s.Pending(1))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("разовая задача не запустилась")
	}

	require.Eventually(t, func() bool { return s.Pending(1) == 0 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, s.cron.Entries())
}

func TestAfter_PanicIsRecovered(t *testing.T) {
	s := newTestScheduler(t)

	done := make(chan struct{})
	s.After(1, 10*time.Millisecond, func() { panic("boom") })
	s.After(1, 50*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("планировщик перестал работать после паники")
	}
}

func TestEvery_RepeatsUntilCancel(t *testing.T) {
	s := newTestScheduler(t)

	var calls atomic.Int32
	s.Every(1, time.Second, func() { calls.Add(1) })
	assert.True(t, s.Repeating(1))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	assert.True(t, s.Cancel(1))
	assert.False(t, s.Cancel(1))
	assert.False(t, s.Repeating(1))
	assert.Empty(t, s.cron.Entries())
}

func TestEvery_ReplacesPreviousJob(t *testing.T) {
	s := newTestScheduler(t)

	s.Every(1, time.Minute, func() {})
	s.Every(1, time.Minute, func() {})
	s.Every(2, time.Minute, func() {})

	assert.Len(t, s.cron.Entries(), 2)
}
