package scheduler

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(nil, nil, log.New(io.Discard, "", 0))
}

// TestStartWithoutJobs tests that starting an empty scheduler fails
func TestStartWithoutJobs(t *testing.T) {
	s := newTestScheduler()

	if err := s.Start(); err == nil {
		t.Fatal("expected error starting scheduler with no jobs")
	}
}

// TestScheduleAndStart tests job registration and lifecycle
func TestScheduleAndStart(t *testing.T) {
	s := newTestScheduler()

	if err := s.ScheduleDataSync("0 30 21 * * MON-FRI", []string{"AAPL"}, 7); err != nil {
		t.Fatalf("failed to schedule data sync: %v", err)
	}
	if err := s.ScheduleOptimization("0 0 22 * * MON-FRI", []string{"AAPL"}, ""); err != nil {
		t.Fatalf("failed to schedule optimization: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("failed to start scheduler: %v", err)
	}
	defer s.Stop()

	if !s.IsRunning() {
		t.Error("expected scheduler to be running")
	}
	if len(s.Entries()) != 2 {
		t.Errorf("expected 2 entries, got %d", len(s.Entries()))
	}
	if s.GetNextRun().IsZero() {
		t.Error("expected a next run time")
	}

	if err := s.Start(); err == nil {
		t.Error("expected error starting scheduler twice")
	}
}

// TestInvalidCronExpression tests cron parse failures
func TestInvalidCronExpression(t *testing.T) {
	s := newTestScheduler()

	if err := s.ScheduleDataSync("not a cron", []string{"AAPL"}, 7); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

// TestScheduleWhileRunning tests that jobs cannot be added to a running scheduler
func TestScheduleWhileRunning(t *testing.T) {
	s := newTestScheduler()

	if err := s.ScheduleDataSync("@every 1h", []string{"AAPL"}, 7); err != nil {
		t.Fatalf("failed to schedule data sync: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("failed to start scheduler: %v", err)
	}
	defer s.Stop()

	if err := s.ScheduleOptimization("@every 1h", nil, ""); err == nil {
		t.Error("expected error scheduling while running")
	}
}

// TestStopIdempotent tests that stopping twice is safe
func TestStopIdempotent(t *testing.T) {
	s := newTestScheduler()

	if err := s.ScheduleDataSync("@every 1h", []string{"AAPL"}, 7); err != nil {
		t.Fatalf("failed to schedule data sync: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("failed to start scheduler: %v", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("failed to stop scheduler: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second stop should be a no-op, got %v", err)
	}
	if s.IsRunning() {
		t.Error("expected scheduler to be stopped")
	}
}

// TestStopDoesNotBlockStatusQueries tests that status queries answer while
// Stop waits for a running job to drain
func TestStopDoesNotBlockStatusQueries(t *testing.T) {
	s := newTestScheduler()

	var once, releaseOnce sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	unblock := func() { releaseOnce.Do(func() { close(release) }) }
	defer unblock()

	// Only the first firing blocks; later firings return immediately so
	// the drain waits on exactly one job.
	id, err := s.cron.AddFunc("* * * * * *", func() {
		blocking := false
		once.Do(func() {
			blocking = true
			close(started)
		})
		if blocking {
			<-release
		}
	})
	if err != nil {
		t.Fatalf("failed to add job: %v", err)
	}
	s.jobIDs = append(s.jobIDs, id)

	if err := s.Start(); err != nil {
		t.Fatalf("failed to start scheduler: %v", err)
	}

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job never started")
	}

	stopDone := make(chan struct{})
	go func() {
		s.Stop()
		close(stopDone)
	}()

	// Stop is now draining the blocked job; queries must still answer.
	queried := make(chan struct{})
	go func() {
		s.IsRunning()
		s.GetNextRun()
		s.Entries()
		close(queried)
	}()

	select {
	case <-queried:
	case <-time.After(time.Second):
		t.Fatal("status queries blocked during Stop")
	}

	unblock()
	select {
	case <-stopDone:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return after job drained")
	}
}
