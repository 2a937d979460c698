// Package scheduler runs the periodic billing jobs: the daily recurring
// sweep and the overdue and reminder notification sweeps. Jobs fire at
// wall-clock times in the process's local zone and never overlap
// themselves; a fire that arrives while the previous run of the same job is
// still going is skipped, not queued.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Clock abstracts wall-clock time so job timing is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context)

type job struct {
	name   string
	hour   int
	minute int
	days   []time.Weekday // empty means every day
	run    JobFunc

	mu        sync.Mutex
	lastFired time.Time // truncated to the minute, guarded by mu
}

// matches reports whether the schedule names this instant, ignoring
// whether the job already fired in this minute.
func (j *job) matches(now time.Time) bool {
	if now.Hour() != j.hour || now.Minute() != j.minute {
		return false
	}
	if len(j.days) == 0 {
		return true
	}
	for _, d := range j.days {
		if now.Weekday() == d {
			return true
		}
	}
	return false
}

// Scheduler drives registered jobs off a polling loop.
type Scheduler struct {
	clock  Clock
	logger zerolog.Logger
	jobs   []*job

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// New creates a scheduler using the given clock.
func New(clock Clock, logger zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		clock:  clock,
		logger: logger.With().Str("component", "scheduler").Logger(),
		stop:   make(chan struct{}),
	}
}

// Every registers a job that fires daily at hh:mm.
func (s *Scheduler) Every(name string, hour, minute int, run JobFunc) {
	s.jobs = append(s.jobs, &job{name: name, hour: hour, minute: minute, run: run})
}

// On registers a job that fires at hh:mm on the given weekdays only.
func (s *Scheduler) On(name string, days []time.Weekday, hour, minute int, run JobFunc) {
	s.jobs = append(s.jobs, &job{name: name, hour: hour, minute: minute, days: days, run: run})
}

// Start launches the polling loop. Jobs run until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()

		s.logger.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
		for {
			select {
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunDue(ctx, s.clock.Now())
			}
		}
	}()
}

// Stop terminates the polling loop and waits for in-flight job runs to
// finish.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}

// RunDue fires every job whose schedule names the given instant. Each job
// fires at most once per minute, runs on its own goroutine, and is skipped
// when its previous run is still in progress.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) {
	for _, j := range s.jobs {
		if !j.matches(now) {
			continue
		}

		s.wg.Add(1)
		go func(j *job) {
			defer s.wg.Done()

			if !j.mu.TryLock() {
				s.logger.Warn().Str("job", j.name).Msg("previous run still in progress, skipping")
				return
			}
			defer j.mu.Unlock()

			minute := now.Truncate(time.Minute)
			if j.lastFired.Equal(minute) {
				return
			}
			j.lastFired = minute

			started := time.Now()
			s.logger.Info().Str("job", j.name).Msg("job started")
			j.run(ctx)
			s.logger.Info().Str("job", j.name).Dur("took", time.Since(started)).Msg("job finished")
		}(j)
	}
}

// Wait blocks until all in-flight job runs complete. Intended for tests
// driving RunDue directly.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
