package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkingPool_RunsSubmittedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkingPool("test", 3, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go pool.Start(ctx, &wg)

	var ran atomic.Int32
	var done sync.WaitGroup
	for range 5 {
		done.Add(1)
		assert.True(t, pool.SubmitJob(ctx, func(context.Context) error {
			defer done.Done()
			ran.Add(1)
			return nil
		}))
	}
	done.Wait()
	cancel()
	wg.Wait()

	assert.Equal(t, int32(5), ran.Load())
}

func TestWorkingPool_SurvivesPanicsAndErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkingPool("test", 1, 4)

	var wg sync.WaitGroup
	wg.Add(1)
	go pool.Start(ctx, &wg)

	finished := make(chan struct{})
	pool.SubmitJob(ctx, func(context.Context) error { panic("boom") })
	pool.SubmitJob(ctx, func(context.Context) error { return errors.New("failed") })
	pool.SubmitJob(ctx, func(context.Context) error {
		close(finished)
		return nil
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
	cancel()
	wg.Wait()
}

func TestWorkingPool_SubmitJobAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := NewWorkingPool("test", 1, 0)

	assert.False(t, pool.SubmitJob(ctx, func(context.Context) error { return nil }))
}

func TestNewWorkingPool_AtLeastOneWorker(t *testing.T) {
	assert.Equal(t, 1, NewWorkingPool("test", 0, 1).NumWorkers)
}

func TestJobScheduler_SubmitsOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool := NewWorkingPool("scheduled", 1, 4)

	var wg sync.WaitGroup
	wg.Add(1)
	go pool.Start(ctx, &wg)

	ticked := make(chan struct{}, 8)
	scheduler := NewJobScheduler("test", 10*time.Millisecond, pool)
	scheduler.AddJob(func(context.Context) error {
		ticked <- struct{}{}
		return nil
	})
	go scheduler.Run(ctx)

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job never ran")
	}
	cancel()
	wg.Wait()
}
