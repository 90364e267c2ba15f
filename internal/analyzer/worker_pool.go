package analyzer

import (
	"runtime"
	"sync"
)

// WorkerPool manages concurrent image processing tasks
type WorkerPool struct {
	workers   int
	jobQueue  chan func()
	once      sync.Once
	closeOnce sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// Workers returns the number of workers
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Submit adds a job to the worker pool queue
func (wp *WorkerPool) Submit(job func()) {
	wp.jobQueue <- job
}

// Run submits jobs and blocks until every one of them has finished.
// Each call waits only on its own jobs, so concurrent analyses can share
// the pool. Jobs must not call Run themselves.
func (wp *WorkerPool) Run(jobs ...func()) {
	wp.Start()

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		job := job
		wp.Submit(func() {
			defer wg.Done()
			job()
		})
	}
	wg.Wait()
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.jobQueue)
	})
}

// runJobs runs jobs on the pool, or sequentially when there is none
func runJobs(pool *WorkerPool, jobs ...func()) {
	if pool == nil || len(jobs) == 1 {
		for _, job := range jobs {
			job()
		}
		return
	}
	pool.Run(jobs...)
}

// splitRange cuts [0,n) into at most parts contiguous strips
func splitRange(n, parts int) [][2]int {
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	if n == 0 {
		return nil
	}
	size := (n + parts - 1) / parts // ceil division
	strips := make([][2]int, 0, parts)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		strips = append(strips, [2]int{start, end})
	}
	return strips
}
