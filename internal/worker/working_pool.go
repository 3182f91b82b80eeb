package worker

import (
	"context"
	"log/slog"
	"sync"
)

type Job func(ctx context.Context) error

type WorkingPool struct {
	Name       string
	NumWorkers int
	jobChan    chan Job
}

func NewWorkingPool(name string, numWorkers int, queueSize int) *WorkingPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkingPool{
		Name:       name,
		NumWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
	}
}

// SubmitJob blocks while the queue is full. It returns false once ctx is done.
func (p *WorkingPool) SubmitJob(ctx context.Context, job Job) bool {
	select {
	case p.jobChan <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Start runs the workers until ctx is canceled. Jobs already queued when ctx
// ends are dropped.
func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup
	for i := range p.NumWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}

	<-ctx.Done()
	slog.Info("working pool shutdown signaled", "pool", p.Name)

	workerWg.Wait()
	slog.Info("working pool stopped", "pool", p.Name)
}

func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()
	slog.Debug("worker started", "pool", p.Name, "worker", id)

	for {
		select {
		case job := <-p.jobChan:
			p.safeExecution(ctx, job, id)
		case <-ctx.Done():
			slog.Debug("worker exiting", "pool", p.Name, "worker", id)
			return
		}
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered in job", "pool", p.Name, "worker", workerID, "panic", r)
		}
	}()

	err = job(ctx)
	if err != nil {
		slog.Error("job failed", "pool", p.Name, "worker", workerID, "error", err)
	}
	return err
}
