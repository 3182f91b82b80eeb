package worker

import (
	"context"
	"log/slog"
	"time"
)

// JobScheduler submits its jobs to a pool on every tick.
type JobScheduler struct {
	Name     string
	Interval time.Duration
	Jobs     []Job
	Pool     *WorkingPool
}

func NewJobScheduler(name string, interval time.Duration, pool *WorkingPool) *JobScheduler {
	return &JobScheduler{
		Name:     name,
		Interval: interval,
		Jobs:     make([]Job, 0),
		Pool:     pool,
	}
}

func (s *JobScheduler) AddJob(job Job) {
	s.Jobs = append(s.Jobs, job)
}

func (s *JobScheduler) Run(ctx context.Context) {
	slog.Info("scheduler running", "scheduler", s.Name, "interval", s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, job := range s.Jobs {
				if !s.Pool.SubmitJob(ctx, job) {
					return
				}
			}
		case <-ctx.Done():
			slog.Info("scheduler shutting down", "scheduler", s.Name)
			return
		}
	}
}
