package hellman

import (
	"context"
	"runtime"
	"sync"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var threads = runtime.NumCPU()

// fanOut calls job(i) for every i in [0, n) on a pool of at most threads goroutines and returns
// once every started job has finished. Jobs must write only to state owned by their index; the
// caller may read all of it after fanOut returns. Once ctx is done no further jobs are started and
// ctx.Err() is returned; otherwise the lowest-indexed job error, if any, is.
func fanOut(ctx context.Context, n int, job func(i int) error) error {
	workers := threads
	if n < workers {
		workers = n
	}
	to, errs := make(chan int, workers), make([]error, n)

	var summing sync.WaitGroup
	summing.Add(workers)
	for i := workers; i > 0; i-- {
		go func() {
			for dex := range to {
				errs[dex] = job(dex)
			}
			summing.Done()
		}()
	}

	sent := 0
feed:
	for ; sent < n; sent++ {
		select {
		case <-ctx.Done():
			break feed
		case to <- sent:
		}
	}
	close(to)
	summing.Wait() /* Join: nothing below runs until every worker has drained. */

	if sent < n {
		return ctx.Err()
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
