// Package scheduler runs recurring analysis jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a scheduled task.
type Job func(ctx context.Context) error

// Per-run deadline. An analysis of a large profile with conservative
// rate limiting can legitimately take a while.
const jobTimeout = 30 * time.Minute

// Scheduler manages periodic tasks.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
	log  *logrus.Logger
}

// New creates a scheduler in the given timezone.
func New(timezone string, log *logrus.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}

	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		jobs: make(map[string]cron.EntryID),
		log:  log,
	}, nil
}

// AddJob schedules a named job with a cron expression like "0 8 * * *".
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.log.Infof("[scheduler] starting job: %s", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			s.log.Errorf("[scheduler] job %s failed: %v", name, err)
		} else {
			s.log.Infof("[scheduler] job %s completed in %v", name, time.Since(start))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.log.Infof("[scheduler] added job: %s (schedule: %s)", name, schedule)
	return nil
}

// RemoveJob unschedules a job.
func (s *Scheduler) RemoveJob(name string) {
	if entryID, ok := s.jobs[name]; ok {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.log.Infof("[scheduler] removed job: %s", name)
	}
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.log.Info("[scheduler] starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler; the returned context is done when running
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("[scheduler] stopping scheduler")
	return s.cron.Stop()
}
