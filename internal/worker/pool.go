package worker

import (
	"context"
	"sync"
)

// FetchFunc retrieves the article text for a single URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// FetchResult carries one fetched body back to the caller, keyed by the
// position of its URL in the input slice so ordering can be restored after
// all fetches complete.
type FetchResult struct {
	Index int
	URL   string
	Text  string
	Err   error
}

// Pool fetches article bodies on a fixed number of goroutines. Deduplication
// and ranking happen only after the whole batch is collected, so the pool
// needs no shared state beyond the job channel.
type Pool struct {
	workers int
}

// NewPool sizes the pool; fewer than one worker degrades to sequential
// fetching.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// FetchAll fetches every URL and returns one result per input, in input
// order. Individual fetch failures are reported in the result, never
// propagated: one slow or dead site must not abort the batch.
func (p *Pool) FetchAll(ctx context.Context, urls []string, fetch FetchFunc) []FetchResult {
	results := make([]FetchResult, len(urls))
	if len(urls) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				text, err := fetch(ctx, urls[idx])
				results[idx] = FetchResult{Index: idx, URL: urls[idx], Text: text, Err: err}
			}
		}()
	}

	for idx := range urls {
		select {
		case <-ctx.Done():
			results[idx] = FetchResult{Index: idx, URL: urls[idx], Err: ctx.Err()}
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
