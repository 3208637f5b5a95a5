package gopool

import (
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

var (
	// Init a instance pool when importing ants.
	defaultPool, _   = ants.NewPool(ants.DefaultAntsPoolSize, ants.WithExpiryDuration(10*time.Second))
	minNumberPerTask = 5
)

// Resize changes the capacity of the default pool. Values below one are ignored.
func Resize(size int) {
	if size < 1 {
		return
	}
	defaultPool.Tune(size)
}

// Submit submits a task to pool.
func Submit(task func()) error {
	return defaultPool.Submit(task)
}

// SubmitAll submits every task and returns a WaitGroup that completes when all
// of the accepted tasks have finished. On error, submitted is the number of
// leading tasks that were accepted; the rest never run.
func SubmitAll(tasks []func()) (wg *sync.WaitGroup, submitted int, err error) {
	wg = new(sync.WaitGroup)
	for _, task := range tasks {
		task := task
		wg.Add(1)
		err = Submit(func() {
			defer wg.Done()
			task()
		})
		if err != nil {
			wg.Done()
			return wg, submitted, err
		}
		submitted++
	}
	return wg, submitted, nil
}

// Cap returns the capacity of this default pool.
func Cap() int {
	return defaultPool.Cap()
}

// Release Closes the default pool.
func Release() {
	defaultPool.Release()
}

// Threads returns how many producers to run for the given number of tasks,
// bounded by the CPU count.
func Threads(tasks int) int {
	threads := tasks / minNumberPerTask
	if threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	} else if threads == 0 {
		threads = 1
	}
	return threads
}
