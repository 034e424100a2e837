package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countJob struct {
	counter *atomic.Int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	// More jobs than the internal buffers hold; the result drain keeps
	// Submit from blocking.
	var counter atomic.Int64
	for i := 0; i < 100; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()

	if counter.Load() != 100 {
		t.Errorf("Expected 100 executions, got %d", counter.Load())
	}
	if len(results) != 100 {
		t.Errorf("Expected 100 results, got %d", len(results))
	}
}

func TestPool_ResultsCarryErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
	pool.Submit(&countJob{counter: &counter, fail: true})

	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failed result, got %d", failures)
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})

	results := pool.Wait()

	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestPool_ShutdownStopsWorkers(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Shutdown()

	// Submit after shutdown must not block
	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
}
