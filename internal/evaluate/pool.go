package evaluate

import (
	"context"
	"sync"

	"rectest/internal/domain"
)

// runParallel fans the cases out to a fixed pool of workers. Each outcome
// lands in the slice slot of its case, so report order stays the discovery
// order no matter which worker finishes first.
func (e *Evaluator) runParallel(ctx context.Context, jobs int, cases []domain.TestCase, outcomes []domain.Outcome, tally *domain.Tally) {
	queue := make(chan int, len(cases))
	for i := range cases {
		queue <- i
	}
	close(queue)

	var mu sync.Mutex
	completed := 0

	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				o := e.evaluate(ctx, cases[i])
				outcomes[i] = o
				tally.Record(o.Status)
				mu.Lock()
				completed++
				if e.opts.OnOutcome != nil {
					e.opts.OnOutcome(completed, o)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
