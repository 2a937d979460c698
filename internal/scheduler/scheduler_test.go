package scheduler

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// logSink is a concurrency-safe zerolog target for asserting on log output.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logSink) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *logSink) contains(s string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Contains(w.buf.String(), s)
}

// Monday 2026-03-02
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func TestDailyJobFiresAtScheduledMinute(t *testing.T) {
	s := New(SystemClock(), zerolog.Nop())
	var runs int32
	s.Every("sweep", 9, 0, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	s.RunDue(context.Background(), at(monday, 8, 59))
	s.Wait()
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	s.RunDue(context.Background(), at(monday, 9, 0))
	s.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	s.RunDue(context.Background(), at(monday, 9, 1))
	s.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	// next day fires again
	s.RunDue(context.Background(), at(monday.AddDate(0, 0, 1), 9, 0))
	s.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestJobFiresAtMostOncePerMinute(t *testing.T) {
	s := New(SystemClock(), zerolog.Nop())
	var runs int32
	s.Every("sweep", 9, 0, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	// several poll ticks land inside the same minute
	for _, sec := range []int{0, 20, 40} {
		now := at(monday, 9, 0).Add(time.Duration(sec) * time.Second)
		s.RunDue(context.Background(), now.Truncate(time.Minute))
		s.Wait()
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestWeekdayJobRespectsDayFilter(t *testing.T) {
	s := New(SystemClock(), zerolog.Nop())
	var mondayRuns, twiceWeeklyRuns int32
	s.On("overdue", []time.Weekday{time.Monday}, 10, 0, func(ctx context.Context) {
		atomic.AddInt32(&mondayRuns, 1)
	})
	s.On("reminders", []time.Weekday{time.Tuesday, time.Thursday}, 14, 0, func(ctx context.Context) {
		atomic.AddInt32(&twiceWeeklyRuns, 1)
	})

	for day := 0; day < 7; day++ {
		d := monday.AddDate(0, 0, day)
		s.RunDue(context.Background(), at(d, 10, 0))
		s.RunDue(context.Background(), at(d, 14, 0))
		s.Wait()
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&mondayRuns))
	assert.Equal(t, int32(2), atomic.LoadInt32(&twiceWeeklyRuns))
}

func TestOverlappingRunIsSkipped(t *testing.T) {
	sink := &logSink{}
	s := New(SystemClock(), zerolog.New(sink))
	var runs int32
	release := make(chan struct{})
	s.Every("slow", 9, 0, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
		<-release
	})

	s.RunDue(context.Background(), at(monday, 9, 0))
	// wait until the first run holds the job lock
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == 1
	}, time.Second, 5*time.Millisecond)

	// the next day's fire arrives while yesterday's run is still going
	s.RunDue(context.Background(), at(monday.AddDate(0, 0, 1), 9, 0))
	assert.Eventually(t, func() bool {
		return sink.contains("previous run still in progress")
	}, time.Second, 5*time.Millisecond)

	close(release)
	s.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestIndependentJobsDoNotBlockEachOther(t *testing.T) {
	s := New(SystemClock(), zerolog.Nop())
	var fast int32
	release := make(chan struct{})
	s.Every("slow", 9, 0, func(ctx context.Context) {
		<-release
	})
	s.Every("fast", 9, 0, func(ctx context.Context) {
		atomic.AddInt32(&fast, 1)
	})

	s.RunDue(context.Background(), at(monday, 9, 0))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fast) == 1
	}, time.Second, 5*time.Millisecond)

	close(release)
	s.Wait()
}

func TestStopTerminatesPollingLoop(t *testing.T) {
	s := New(SystemClock(), zerolog.Nop())
	s.Every("noop", 3, 0, func(ctx context.Context) {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(SystemClock(), zerolog.Nop())
	s.Start(context.Background())
	s.Stop()
	assert.NotPanics(t, func() { s.Stop() })
}
